package plan

// SymbolTable maps plan variable names to the columns they carry and the node producing them.
type SymbolTable struct {
	vars map[string]symbol
}

type symbol struct {
	producer NodeID
	colNames []string
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{vars: map[string]symbol{}}
}

func (st *SymbolTable) define(varName string, producer NodeID, colNames []string) {
	st.vars[varName] = symbol{producer: producer, colNames: colNames}
}

// Has returns true if the variable is defined.
func (st *SymbolTable) Has(varName string) bool {
	_, ok := st.vars[varName]
	return ok
}

// Columns returns the column names carried by the variable.
func (st *SymbolTable) Columns(varName string) ([]string, bool) {
	found, ok := st.vars[varName]
	if !ok {
		return nil, false
	}
	return append([]string(nil), found.colNames...), true
}

// Producer returns the node whose output is bound to the variable.
func (st *SymbolTable) Producer(varName string) (NodeID, bool) {
	found, ok := st.vars[varName]
	return found.producer, ok
}

// Len returns the number of defined variables.
func (st *SymbolTable) Len() int {
	return len(st.vars)
}

// DefineInput binds a variable produced outside the plan, such as the rows piped in from a
// preceding statement.
func (st *SymbolTable) DefineInput(varName string, colNames []string) {
	st.define(varName, Nil, append([]string(nil), colNames...))
}

package plan

import (
	"slices"
	"strconv"
	"strings"

	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/planerrors"
	"github.com/authzed/graphplanner/pkg/schema"
)

// NodeID is a handle to a node in a Graph.
type NodeID uint32

// Nil is the null node handle.
const Nil NodeID = 0

// Reserved column names produced by the storage operators.
const (
	ColVid   = "_vid"
	ColStats = "_stats"
	ColExpr  = "_expr"
)

// Column is one output column of a Project node.
type Column struct {
	Name string
	Expr expr.ID
}

// Node is a read-only view of a plan node. Fields that do not apply to the node's kind are
// zero.
type Node struct {
	Kind      Kind
	OutputVar string
	InputVar  string
	ColNames  []string
	Deps      []NodeID

	// Project
	Columns []Column

	// Filter
	Condition expr.ID

	// Values
	Rows []expr.ID

	// GetVertices, GetNeighbors
	Src         expr.ID
	VertexProps []schema.VertexProp
	EdgeProps   []schema.EdgeProp
	EdgeTypes   []string
	Direction   Direction

	// InnerJoin, LeftJoin
	LeftVar   string
	RightVar  string
	HashKeys  []expr.ID
	ProbeKeys []expr.ID
}

func (n Node) clone() Node {
	n.ColNames = slices.Clone(n.ColNames)
	n.Deps = slices.Clone(n.Deps)
	n.Columns = slices.Clone(n.Columns)
	n.Rows = slices.Clone(n.Rows)
	n.VertexProps = slices.Clone(n.VertexProps)
	n.EdgeProps = slices.Clone(n.EdgeProps)
	n.EdgeTypes = slices.Clone(n.EdgeTypes)
	n.HashKeys = slices.Clone(n.HashKeys)
	n.ProbeKeys = slices.Clone(n.ProbeKeys)
	return n
}

// Graph is the arena owning every plan node of one query. Expressions referenced by nodes live
// in the associated expression arena.
type Graph struct {
	nodes   []Node
	exprs   *expr.Arena
	symbols *SymbolTable
}

// NewGraph creates an empty graph whose nodes reference expressions of exprs and bind their
// outputs in symbols.
func NewGraph(exprs *expr.Arena, symbols *SymbolTable) *Graph {
	return &Graph{
		nodes:   []Node{{Kind: KindInvalid}},
		exprs:   exprs,
		symbols: symbols,
	}
}

// Exprs returns the expression arena referenced by the graph.
func (g *Graph) Exprs() *expr.Arena { return g.exprs }

// Symbols returns the symbol table the graph binds outputs in.
func (g *Graph) Symbols() *SymbolTable { return g.symbols }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) - 1 }

// Valid returns true if id refers to an allocated node.
func (g *Graph) Valid(id NodeID) bool {
	return id != Nil && int(id) < len(g.nodes)
}

// Node returns a copy of the node.
func (g *Graph) Node(id NodeID) Node {
	return g.get(id).clone()
}

// Kind returns the node's operator. The Nil handle reports KindInvalid.
func (g *Graph) Kind(id NodeID) Kind {
	if !g.Valid(id) {
		return KindInvalid
	}
	return g.nodes[id].Kind
}

// OutputVar returns the variable the node's output is bound to.
func (g *Graph) OutputVar(id NodeID) string {
	return g.get(id).OutputVar
}

// ColNames returns the node's output column names.
func (g *Graph) ColNames(id NodeID) []string {
	return slices.Clone(g.get(id).ColNames)
}

// Deps returns the node's dependencies.
func (g *Graph) Deps(id NodeID) []NodeID {
	return slices.Clone(g.get(id).Deps)
}

func (g *Graph) get(id NodeID) *Node {
	if !g.Valid(id) {
		planerrors.MustPanicf("invalid plan node handle %d", id)
	}
	return &g.nodes[id]
}

func (g *Graph) add(n Node) NodeID {
	id := NodeID(len(g.nodes))
	n.OutputVar = "__" + n.Kind.String() + "_" + strconv.Itoa(int(id))
	g.nodes = append(g.nodes, n)
	g.symbols.define(n.OutputVar, id, slices.Clone(n.ColNames))
	return id
}

// inputOf resolves the variable a single-input node reads: an explicit name wins, otherwise
// the dependency's output.
func (g *Graph) inputOf(dep NodeID, inputVar string) string {
	if inputVar != "" {
		return inputVar
	}
	if dep == Nil {
		return ""
	}
	return g.get(dep).OutputVar
}

func (g *Graph) columnsOf(varName string) []string {
	cols, ok := g.symbols.Columns(varName)
	if !ok {
		planerrors.MustPanicf("plan variable `%s` is not defined", varName)
	}
	return cols
}

func depsOf(dep NodeID) []NodeID {
	if dep == Nil {
		return nil
	}
	return []NodeID{dep}
}

// Start creates the leaf every plan without a data source begins from.
func (g *Graph) Start() NodeID {
	return g.add(Node{Kind: KindStart})
}

// Values creates a leaf emitting one single-column row per expression.
func (g *Graph) Values(colName string, rows ...expr.ID) NodeID {
	return g.add(Node{
		Kind:     KindValues,
		ColNames: []string{colName},
		Rows:     slices.Clone(rows),
	})
}

// Project evaluates columns over every row of inputVar, or of dep's output when inputVar is
// empty.
func (g *Graph) Project(dep NodeID, inputVar string, columns ...Column) NodeID {
	colNames := make([]string, 0, len(columns))
	for _, col := range columns {
		colNames = append(colNames, col.Name)
	}
	return g.add(Node{
		Kind:     KindProject,
		InputVar: g.inputOf(dep, inputVar),
		Deps:     depsOf(dep),
		ColNames: colNames,
		Columns:  slices.Clone(columns),
	})
}

// Dedup removes duplicate rows of dep's output.
func (g *Graph) Dedup(dep NodeID) NodeID {
	input := g.inputOf(dep, "")
	return g.add(Node{
		Kind:     KindDedup,
		InputVar: input,
		Deps:     depsOf(dep),
		ColNames: g.columnsOf(input),
	})
}

// Filter keeps the rows of inputVar, or of dep's output, for which condition holds. The
// columns pass through unchanged.
func (g *Graph) Filter(dep NodeID, inputVar string, condition expr.ID) NodeID {
	input := g.inputOf(dep, inputVar)
	return g.add(Node{
		Kind:      KindFilter,
		InputVar:  input,
		Deps:      depsOf(dep),
		ColNames:  g.columnsOf(input),
		Condition: condition,
	})
}

// GetVertices fetches the vertices whose ids src evaluates to over the rows of inputVar.
func (g *Graph) GetVertices(dep NodeID, inputVar string, src expr.ID, props []schema.VertexProp) NodeID {
	colNames := []string{ColVid}
	for _, vp := range props {
		for _, prop := range vp.Props {
			colNames = append(colNames, vp.Tag+"."+prop)
		}
	}
	return g.add(Node{
		Kind:        KindGetVertices,
		InputVar:    g.inputOf(dep, inputVar),
		Deps:        depsOf(dep),
		ColNames:    colNames,
		Src:         src,
		VertexProps: cloneVertexProps(props),
	})
}

// NeighborsRequest configures a GetNeighbors node.
type NeighborsRequest struct {
	Src         expr.ID
	EdgeTypes   []string
	Direction   Direction
	VertexProps []schema.VertexProp
	EdgeProps   []schema.EdgeProp
}

// GetNeighbors expands the edges of the vertices whose ids req.Src evaluates to over the rows
// of inputVar.
func (g *Graph) GetNeighbors(dep NodeID, inputVar string, req NeighborsRequest) NodeID {
	colNames := []string{ColVid, ColStats}
	for _, vp := range req.VertexProps {
		colNames = append(colNames, "_tag:"+vp.Tag+":"+strings.Join(vp.Props, ":"))
	}
	for _, ep := range req.EdgeProps {
		colNames = append(colNames, "_edge:"+ep.TypeName()+":"+strings.Join(ep.Props, ":"))
	}
	colNames = append(colNames, ColExpr)

	return g.add(Node{
		Kind:        KindGetNeighbors,
		InputVar:    g.inputOf(dep, inputVar),
		Deps:        depsOf(dep),
		ColNames:    colNames,
		Src:         req.Src,
		EdgeTypes:   slices.Clone(req.EdgeTypes),
		Direction:   req.Direction,
		VertexProps: cloneVertexProps(req.VertexProps),
		EdgeProps:   cloneEdgeProps(req.EdgeProps),
	})
}

// InnerJoin matches rows of left and right whose hash and probe keys are equal. The output
// carries the left columns followed by the right columns.
func (g *Graph) InnerJoin(left, right NodeID, hashKeys, probeKeys []expr.ID) NodeID {
	return g.join(KindInnerJoin, left, right, hashKeys, probeKeys)
}

// LeftJoin is InnerJoin that keeps unmatched left rows.
func (g *Graph) LeftJoin(left, right NodeID, hashKeys, probeKeys []expr.ID) NodeID {
	return g.join(KindLeftJoin, left, right, hashKeys, probeKeys)
}

func (g *Graph) join(kind Kind, left, right NodeID, hashKeys, probeKeys []expr.ID) NodeID {
	if len(hashKeys) == 0 || len(hashKeys) != len(probeKeys) {
		planerrors.MustPanicf("%s requires matching key lists, got %d hash and %d probe keys", kind, len(hashKeys), len(probeKeys))
	}
	l, r := g.get(left), g.get(right)
	return g.add(Node{
		Kind:      kind,
		Deps:      []NodeID{left, right},
		ColNames:  slices.Concat(l.ColNames, r.ColNames),
		LeftVar:   l.OutputVar,
		RightVar:  r.OutputVar,
		HashKeys:  slices.Clone(hashKeys),
		ProbeKeys: slices.Clone(probeKeys),
	})
}

// Union concatenates the rows of two inputs carrying the same columns.
func (g *Graph) Union(left, right NodeID) NodeID {
	l, r := g.get(left), g.get(right)
	if !slices.Equal(l.ColNames, r.ColNames) {
		planerrors.MustPanicf("union inputs carry different columns: %v and %v", l.ColNames, r.ColNames)
	}
	return g.add(Node{
		Kind:     KindUnion,
		Deps:     []NodeID{left, right},
		ColNames: slices.Clone(l.ColNames),
		LeftVar:  l.OutputVar,
		RightVar: r.OutputVar,
	})
}

func cloneVertexProps(props []schema.VertexProp) []schema.VertexProp {
	out := slices.Clone(props)
	for i := range out {
		out[i].Props = slices.Clone(out[i].Props)
	}
	return out
}

func cloneEdgeProps(props []schema.EdgeProp) []schema.EdgeProp {
	out := slices.Clone(props)
	for i := range out {
		out[i].Props = slices.Clone(out[i].Props)
	}
	return out
}

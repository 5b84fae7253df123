package traverse

import (
	"strconv"

	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/plan"
)

// StepKind is the shape of a traversal's step count.
type StepKind uint8

const (
	StepOne StepKind = iota
	StepN
	StepMToN
)

func (sk StepKind) String() string {
	switch sk {
	case StepOne:
		return "one_step"
	case StepN:
		return "n_steps"
	case StepMToN:
		return "m_to_n_steps"
	default:
		return "StepKind(" + strconv.Itoa(int(sk)) + ")"
	}
}

// Steps is the step count of a traversal. M is only read for StepMToN and N is ignored for
// StepOne.
type Steps struct {
	Kind StepKind
	M    uint32
	N    uint32
}

// OneStep walks a single edge.
func OneStep() Steps { return Steps{Kind: StepOne, M: 1, N: 1} }

// NSteps walks exactly n edges.
func NSteps(n uint32) Steps { return Steps{Kind: StepN, M: n, N: n} }

// MToNSteps walks between m and n edges, emitting every path whose length is in range.
func MToNSteps(m, n uint32) Steps { return Steps{Kind: StepMToN, M: m, N: n} }

// From is the start of a traversal: either constant vertex ids or the rows of a variable
// bound by a preceding statement, from which Src computes the start id.
type From struct {
	Vids []expr.ID

	InputVar string
	Src      expr.ID
}

// Over selects the edges walked. An empty EdgeTypes walks every edge type of the space.
type Over struct {
	EdgeTypes []string
	Direction plan.Direction
}

// Yield is one output column. An empty Alias names the column after the rendered expression.
type Yield struct {
	Alias string
	Expr  expr.ID
}

// Traversal is a validated graph walk. Filter and Yields may reference the walked edge through
// labels (`e`, `e.prop`), edge properties (`like.prop`), source vertex properties
// (`$^.tag.prop`) and, in yields only, destination vertex properties (`$$.tag.prop`) and input
// columns (`$-.col`).
type Traversal struct {
	From     From
	Steps    Steps
	Over     Over
	Filter   expr.ID
	Yields   []Yield
	Distinct bool
}

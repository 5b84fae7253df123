package match

import (
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/plan"
)

// ColPath is the single column a matched vertex or path is normalized into.
const ColPath = "_path"

// Function names understood by the expression evaluator.
const (
	FuncStartNode         = "startNode"
	FuncEndNode           = "endNode"
	FuncHasSameEdgeInPath = "hasSameEdgeInPath"
)

// EndVidInPath returns `endNode($-.col)._vid`, the id of the last vertex of the path in col.
func EndVidInPath(a *expr.Arena, col string) expr.ID {
	return a.Attribute(a.FunctionCall(FuncEndNode, a.InputProperty(col)), a.Constant(plan.ColVid))
}

// StartVidInPath returns `startNode($-.col)._vid`, the id of the first vertex of the path in col.
func StartVidInPath(a *expr.Arena, col string) expr.ID {
	return a.Attribute(a.FunctionCall(FuncStartNode, a.InputProperty(col)), a.Constant(plan.ColVid))
}

// FilterPathHasSameEdge drops the rows of input whose path in col traverses an edge twice.
func FilterPathHasSameEdge(g *plan.Graph, input plan.NodeID, col string) plan.NodeID {
	a := g.Exprs()
	cond := a.Not(a.FunctionCall(FuncHasSameEdgeInPath, a.InputProperty(col)))
	return g.Filter(input, "", cond)
}

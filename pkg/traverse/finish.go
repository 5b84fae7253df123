package traverse

import (
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/plan"
)

// finish attaches destination properties and input columns to the walked rows, then projects
// the yield clause.
func (b *Builder) finish(t Traversal, shape walkShape, walk plan.NodeID, reqs requests, refs *propRefs) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()

	walkVar := g.OutputVar(walk)
	startCol := ColSrc
	if shape.traced {
		startCol = ColStart
	}

	last := walk
	var dstVar, inputVar string
	if len(refs.dst) > 0 {
		last = b.joinDstProps(walk, reqs, refs)
		dstVar = g.Node(last).RightVar
	}
	if len(refs.input) > 0 {
		last = b.joinInput(last, walkVar, startCol, t.From, refs.input)
		inputVar = g.Node(last).RightVar
	}

	scope := func(a *expr.Arena, id expr.ID) expr.ID {
		switch a.Kind(id) {
		case expr.KindDestProperty:
			return a.VariableProperty(dstVar, a.String(id))
		case expr.KindInputProperty:
			return a.VariableProperty(inputVar, a.Prop(id))
		default:
			return a.VariableProperty(walkVar, a.String(id))
		}
	}

	var columns []plan.Column
	for _, yield := range t.Yields {
		name := yield.Alias
		if name == "" {
			name = a.String(yield.Expr)
		}
		columns = append(columns, plan.Column{Name: name, Expr: a.Transform(yield.Expr, isPropRef, scope)})
	}
	if len(columns) == 0 {
		columns = []plan.Column{{Name: ColDst, Expr: a.VariableProperty(walkVar, ColDst)}}
	}

	root := g.Project(last, "", columns...)
	if t.Distinct {
		root = g.Dedup(root)
	}
	return root
}

// joinDstProps fetches the destination vertices once for the whole walk and left joins their
// properties onto the walked rows by id.
func (b *Builder) joinDstProps(walk plan.NodeID, reqs requests, refs *propRefs) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()

	ids := g.Project(walk, "", plan.Column{Name: plan.ColVid, Expr: a.InputProperty(ColDst)})
	dedup := g.Dedup(ids)
	gv := g.GetVertices(dedup, "", a.InputProperty(plan.ColVid), reqs.dstProps)

	columns := []plan.Column{{Name: plan.ColVid, Expr: a.InputProperty(plan.ColVid)}}
	for _, col := range refs.dst {
		columns = append(columns, plan.Column{Name: col.name, Expr: a.Clone(col.expr)})
	}
	props := g.Project(gv, "", columns...)

	return g.LeftJoin(walk, props,
		[]expr.ID{a.VariableProperty(g.OutputVar(walk), ColDst)},
		[]expr.ID{a.VariableProperty(g.OutputVar(props), plan.ColVid)},
	)
}

// joinInput correlates the walked rows back to the input rows they started from.
func (b *Builder) joinInput(rows plan.NodeID, walkVar, startCol string, from From, cols []string) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()

	columns := []plan.Column{{Name: plan.ColVid, Expr: a.Clone(from.Src)}}
	for _, col := range cols {
		columns = append(columns, plan.Column{Name: col, Expr: a.InputProperty(col)})
	}
	input := g.Project(plan.Nil, from.InputVar, columns...)

	return g.InnerJoin(rows, input,
		[]expr.ID{a.VariableProperty(walkVar, startCol)},
		[]expr.ID{a.VariableProperty(g.OutputVar(input), plan.ColVid)},
	)
}

package traverse

import (
	"fmt"
	"slices"

	"github.com/authzed/graphplanner/internal/metrics"
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/match"
	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/planerrors"
	"github.com/authzed/graphplanner/pkg/qctx"
)

// Columns carried by the step and trace projections.
const (
	ColSrc   = "_src"
	ColEdge  = "_edge"
	ColDst   = "_dst"
	ColStart = "_start"
)

// Builder compiles traversals into the plan graph of a query context.
type Builder struct {
	qc     *qctx.QueryContext
	config Config
}

// NewBuilder creates a builder appending to qc's plan graph.
func NewBuilder(qc *qctx.QueryContext, opts ...Option) *Builder {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Builder{qc: qc, config: config}
}

// walkShape is the resolved step range of a traversal.
type walkShape struct {
	kind  StepKind
	lower uint32
	upper uint32

	// traced walks accumulate the path of every row across steps.
	traced bool

	// sameEdge walks drop paths traversing an edge twice.
	sameEdge bool
}

func (b *Builder) resolveShape(steps Steps) (walkShape, error) {
	var shape walkShape
	switch steps.Kind {
	case StepOne:
		shape = walkShape{kind: StepOne, lower: 1, upper: 1}

	case StepN:
		if steps.N == 0 {
			return walkShape{}, fmt.Errorf("a traversal must walk at least one step")
		}
		shape = walkShape{kind: StepN, lower: steps.N, upper: steps.N, traced: steps.N > 1}

	case StepMToN:
		if steps.M == 0 || steps.M > steps.N {
			return walkShape{}, fmt.Errorf("invalid step range %d to %d", steps.M, steps.N)
		}
		shape = walkShape{kind: StepMToN, lower: steps.M, upper: steps.N, traced: true, sameEdge: true}

	default:
		return walkShape{}, planerrors.MustBugf("unknown step kind %s", steps.Kind)
	}

	if shape.upper > b.config.MaxSteps {
		return walkShape{}, NewStepLimitErr(shape.upper, b.config.MaxSteps)
	}
	return shape, nil
}

// Build appends the plan of t to the query's graph. The returned sub-plan's root produces one
// column per yield, or a single _dst column when t has no yields.
func (b *Builder) Build(t Traversal) (plan.SubPlan, error) {
	sp, shape, err := b.build(t)
	if err != nil {
		metrics.CompileFailures.WithLabelValues("traverse").Inc()
		b.qc.Logger().Debug().Err(err).Stringer("shape", t.Steps.Kind).Msg("unable to build traversal plan")
		return plan.SubPlan{}, err
	}

	nodes := len(b.qc.Plan().Reachable(sp.Root))
	metrics.TraversalPlansBuilt.WithLabelValues(shape.kind.String()).Inc()
	metrics.TraversalPlanNodes.Observe(float64(nodes))
	b.qc.Logger().Debug().
		Stringer("shape", shape.kind).
		Uint32("min_steps", shape.lower).
		Uint32("max_steps", shape.upper).
		Int("nodes", nodes).
		Msg("built traversal plan")
	return sp, nil
}

func (b *Builder) build(t Traversal) (plan.SubPlan, walkShape, error) {
	shape, err := b.resolveShape(t.Steps)
	if err != nil {
		return plan.SubPlan{}, walkShape{}, err
	}

	a := b.qc.Exprs()
	refs := newPropRefs()
	if t.Filter != expr.Nil {
		if err := refs.collect(a, t.Filter, true); err != nil {
			return plan.SubPlan{}, walkShape{}, err
		}
	}
	for _, yield := range t.Yields {
		if err := refs.collect(a, yield.Expr, false); err != nil {
			return plan.SubPlan{}, walkShape{}, err
		}
	}
	if len(refs.input) > 0 {
		if err := b.checkInputColumns(t.From, refs.input); err != nil {
			return plan.SubPlan{}, walkShape{}, err
		}
	}

	reqs, err := b.buildRequests(refs, t.Over)
	if err != nil {
		return plan.SubPlan{}, walkShape{}, err
	}

	tail, frontier, err := b.startFrontier(t.From)
	if err != nil {
		return plan.SubPlan{}, walkShape{}, err
	}

	walk := b.walk(shape, frontier, t.Filter, reqs, refs)
	root := b.finish(t, shape, walk, reqs, refs)
	return plan.SubPlan{Root: root, Tail: tail}, shape, nil
}

func (b *Builder) checkInputColumns(from From, cols []string) error {
	if from.InputVar == "" {
		return fmt.Errorf("input column `%s` is referenced but the traversal reads no input", cols[0])
	}
	available, _ := b.qc.Symbols().Columns(from.InputVar)
	for _, col := range cols {
		if !slices.Contains(available, col) {
			return fmt.Errorf("input column `%s` is not produced by `%s`", col, from.InputVar)
		}
	}
	return nil
}

// startFrontier returns the first node of the plan and the deduplicated start ids.
func (b *Builder) startFrontier(from From) (tail, frontier plan.NodeID, err error) {
	g, a := b.qc.Plan(), b.qc.Exprs()

	switch {
	case len(from.Vids) > 0 && from.InputVar != "":
		return plan.Nil, plan.Nil, planerrors.MustBugf("traversal starts from both constant ids and `%s`", from.InputVar)

	case len(from.Vids) > 0:
		rows := make([]expr.ID, 0, len(from.Vids))
		for _, vid := range from.Vids {
			rows = append(rows, a.Clone(vid))
		}
		values := g.Values(plan.ColVid, rows...)
		return values, g.Dedup(values), nil

	case from.InputVar != "":
		if !b.qc.Symbols().Has(from.InputVar) {
			return plan.Nil, plan.Nil, planerrors.MustBugf("input variable `%s` is not defined", from.InputVar)
		}
		if from.Src == expr.Nil {
			return plan.Nil, plan.Nil, planerrors.MustBugf("input variable `%s` has no start id expression", from.InputVar)
		}
		project := g.Project(plan.Nil, from.InputVar, plan.Column{Name: plan.ColVid, Expr: a.Clone(from.Src)})
		return project, g.Dedup(project), nil

	default:
		return plan.Nil, plan.Nil, planerrors.MustBugf("traversal has no start")
	}
}

// walkState is threaded through the steps of a walk.
type walkState struct {
	// frontier produces the deduplicated _vid column expanded by the next step.
	frontier plan.NodeID

	// trace produces _start, _dst and _path of every walked path, for traced walks.
	trace plan.NodeID
}

// walk expands the frontier shape.upper times and returns the node producing the rows of every
// step in range. The filter applies to emitted rows only; the walk continues from every
// neighbor reached, so an M to N walk emits the same long paths as a fixed walk of that length.
func (b *Builder) walk(shape walkShape, frontier plan.NodeID, filter expr.ID, reqs requests, refs *propRefs) plan.NodeID {
	g := b.qc.Plan()

	state := walkState{frontier: frontier}
	var results []plan.NodeID
	for k := uint32(1); k <= shape.upper; k++ {
		yielding := k >= shape.lower
		gn := b.expand(state.frontier, reqs, yielding)

		// continued produces the rows the next step expands from.
		continued := plan.Nil
		if yielding {
			rows := b.stepRows(gn, filter, refs, true)
			if shape.traced {
				rows = b.traceStep(state.trace, rows, refs, true)
			}

			result := rows
			if shape.sameEdge {
				result = match.FilterPathHasSameEdge(g, rows, match.ColPath)
			}
			results = append(results, result)

			if filter == expr.Nil {
				continued = rows
			}
		}

		if k == shape.upper {
			break
		}

		if continued == plan.Nil {
			continued = b.stepRows(gn, expr.Nil, refs, false)
			if shape.traced {
				continued = b.traceStep(state.trace, continued, refs, false)
			}
		}
		if shape.traced {
			state.trace = continued
		}
		state.frontier = b.nextFrontier(continued)
	}

	walk := results[0]
	for _, result := range results[1:] {
		walk = g.Union(walk, result)
	}
	return walk
}

// expand fetches the edges leaving the frontier, with the source properties of the yield
// clause when the step's rows are emitted.
func (b *Builder) expand(frontier plan.NodeID, reqs requests, yielding bool) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()

	request := plan.NeighborsRequest{
		Src:       a.InputProperty(plan.ColVid),
		EdgeTypes: reqs.edgeTypes,
		Direction: reqs.direction,
		EdgeProps: reqs.edgeProps,
	}
	if yielding {
		request.VertexProps = reqs.srcProps
	}
	return g.GetNeighbors(frontier, "", request)
}

// stepRows projects _src, _edge and _dst of the neighbors gn produced, keeping the rows filter
// accepts. Emitted rows also carry the source and edge columns of the yield clause.
func (b *Builder) stepRows(gn plan.NodeID, filter expr.ID, refs *propRefs, yielding bool) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()

	input := gn
	if filter != expr.Nil {
		input = g.Filter(gn, "", match.RewriteLabelToEdge(a, filter))
	}

	columns := []plan.Column{
		{Name: ColSrc, Expr: a.Attribute(a.Edge(), a.Constant(ColSrc))},
		{Name: ColEdge, Expr: a.Edge()},
		{Name: ColDst, Expr: a.Attribute(a.Edge(), a.Constant(ColDst))},
	}
	if yielding {
		for _, col := range refs.srcEdge {
			columns = append(columns, plan.Column{Name: col.name, Expr: a.Clone(col.expr)})
		}
	}
	return g.Project(input, "", columns...)
}

// traceStep extends the accumulated paths with the edges of step. The first step starts the
// trace; later steps join it to the step's rows on trace._dst == step._src.
func (b *Builder) traceStep(trace, step plan.NodeID, refs *propRefs, yielding bool) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()

	var columns []plan.Column
	var input plan.NodeID
	stepCol := func(col string) expr.ID { return a.InputProperty(col) }

	if trace == plan.Nil {
		input = step
		columns = []plan.Column{
			{Name: ColStart, Expr: a.InputProperty(ColSrc)},
			{Name: ColDst, Expr: a.InputProperty(ColDst)},
			{Name: match.ColPath, Expr: a.PathBuild(a.InputProperty(ColSrc), a.InputProperty(ColEdge), a.InputProperty(ColDst))},
		}
	} else {
		traceVar, stepVar := g.OutputVar(trace), g.OutputVar(step)
		input = g.InnerJoin(trace, step,
			[]expr.ID{a.VariableProperty(traceVar, ColDst)},
			[]expr.ID{a.VariableProperty(stepVar, ColSrc)},
		)
		stepCol = func(col string) expr.ID { return a.VariableProperty(stepVar, col) }
		columns = []plan.Column{
			{Name: ColStart, Expr: a.VariableProperty(traceVar, ColStart)},
			{Name: ColDst, Expr: stepCol(ColDst)},
			{Name: match.ColPath, Expr: a.PathBuild(a.VariableProperty(traceVar, match.ColPath), stepCol(ColEdge), stepCol(ColDst))},
		}
	}

	if yielding {
		for _, col := range refs.srcEdge {
			columns = append(columns, plan.Column{Name: col.name, Expr: stepCol(col.name)})
		}
	}
	return g.Project(input, "", columns...)
}

// nextFrontier deduplicates the destinations reached by rows.
func (b *Builder) nextFrontier(rows plan.NodeID) plan.NodeID {
	g, a := b.qc.Plan(), b.qc.Exprs()
	project := g.Project(rows, "", plan.Column{Name: plan.ColVid, Expr: a.InputProperty(ColDst)})
	return g.Dedup(project)
}

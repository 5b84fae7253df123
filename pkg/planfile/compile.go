package planfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/match"
	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/qctx"
	"github.com/authzed/graphplanner/pkg/traverse"
)

// Compiled is the result of compiling a fixture.
type Compiled struct {
	Plan plan.SubPlan

	// IndexFilter is the index filter of a fetched node pattern over its first label, or
	// expr.Nil.
	IndexFilter expr.ID
}

// Compile binds the fixture's input variables in qc and appends the plan of its statement to
// qc's graph. The fixture's space must exist in qc's schema and be the space qc compiles for.
func Compile(qc *qctx.QueryContext, f *File, opts ...traverse.Option) (Compiled, error) {
	if _, err := qc.Schema().LookupSpace(f.Space); err != nil {
		return Compiled{}, fmt.Errorf("plan file targets space `%s`: %w", f.Space, err)
	}
	if qc.Space() != f.Space {
		return Compiled{}, fmt.Errorf("plan file targets space `%s`, query context uses `%s`", f.Space, qc.Space())
	}
	for _, input := range f.Inputs {
		qc.Symbols().DefineInput(input.Var, input.Columns)
	}

	if f.Fetch != nil {
		return compileFetch(qc, f.Fetch)
	}

	t, err := DecodeTraversal(qc.Exprs(), f.Traversal)
	if err != nil {
		return Compiled{}, err
	}
	if t.From.InputVar != "" && !qc.Symbols().Has(t.From.InputVar) {
		return Compiled{}, fmt.Errorf("traversal starts from undeclared variable `%s`", t.From.InputVar)
	}

	sp, err := traverse.NewBuilder(qc, opts...).Build(t)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{Plan: sp, IndexFilter: expr.Nil}, nil
}

// DecodeTraversal allocates the expressions of spec in a and returns the traversal they form.
func DecodeTraversal(a *expr.Arena, spec *TraversalSpec) (traverse.Traversal, error) {
	var t traverse.Traversal

	m, n, ranged, err := parseSteps(spec.Steps)
	if err != nil {
		return t, err
	}
	switch {
	case ranged:
		t.Steps = traverse.MToNSteps(m, n)
	case n == 1:
		t.Steps = traverse.OneStep()
	default:
		t.Steps = traverse.NSteps(n)
	}

	direction, err := parseDirection(spec.Over.Direction)
	if err != nil {
		return t, err
	}
	t.Over = traverse.Over{EdgeTypes: spec.Over.Edges, Direction: direction}

	switch {
	case len(spec.From.Vids) > 0 && spec.From.Var != "":
		return t, fmt.Errorf("a traversal starts from either `vids` or `var`, not both")
	case len(spec.From.Vids) > 0:
		t.From.Vids, err = decodeVids(a, spec.From.Vids)
		if err != nil {
			return t, err
		}
	case spec.From.Var != "":
		t.From.InputVar = spec.From.Var
		t.From.Src, err = DecodeExpr(a, &spec.From.Src)
		if err != nil {
			return t, err
		}
		if t.From.Src == expr.Nil {
			return t, fmt.Errorf("a traversal from `%s` needs a `src` expression", spec.From.Var)
		}
	default:
		return t, fmt.Errorf("a traversal needs a start: `vids` or `var`")
	}

	t.Filter, err = DecodeExpr(a, &spec.Where)
	if err != nil {
		return t, err
	}

	for i := range spec.Yield {
		id, err := DecodeExpr(a, &spec.Yield[i].Expr)
		if err != nil {
			return t, err
		}
		if id == expr.Nil {
			return t, fmt.Errorf("yield %d has no expression", i)
		}
		t.Yields = append(t.Yields, traverse.Yield{Alias: spec.Yield[i].Alias, Expr: id})
	}
	t.Distinct = spec.Distinct
	return t, nil
}

func decodeVids(a *expr.Arena, nodes []yaml.Node) ([]expr.ID, error) {
	vids := make([]expr.ID, 0, len(nodes))
	for i := range nodes {
		v, err := decodeScalar(&nodes[i])
		if err != nil {
			return nil, err
		}
		vids = append(vids, a.Constant(v))
	}
	return vids, nil
}

func compileFetch(qc *qctx.QueryContext, spec *FetchSpec) (Compiled, error) {
	a, g := qc.Exprs(), qc.Plan()
	if len(spec.Vids) == 0 {
		return Compiled{}, fmt.Errorf("a fetch needs at least one vid")
	}
	if spec.Node.Alias == "" {
		return Compiled{}, fmt.Errorf("a fetched node pattern needs an alias")
	}

	vids, err := decodeVids(a, spec.Vids)
	if err != nil {
		return Compiled{}, err
	}
	node := match.NodePattern{Alias: spec.Node.Alias, Labels: spec.Node.Labels}
	if node.Props, err = DecodeExpr(a, &spec.Node.Props); err != nil {
		return Compiled{}, err
	}
	if node.Filter, err = DecodeExpr(a, &spec.Node.Where); err != nil {
		return Compiled{}, err
	}

	indexFilter := expr.Nil
	if len(node.Labels) > 0 {
		indexFilter = match.NodeIndexFilter(a, node, node.Labels[0])
	}

	if alias, ok := undeclaredAlias(a, node.Filter, node.Alias); ok {
		return Compiled{}, fmt.Errorf("fetch filter references alias `%s`, the node is `%s`", alias, node.Alias)
	}

	start := g.Values(plan.ColVid, vids...)
	sp, err := match.AppendFetchVertexPlanFromVar(
		qc,
		node.Filter,
		a.InputProperty(plan.ColVid),
		g.OutputVar(start),
		plan.SubPlan{Root: start, Tail: start},
	)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{Plan: sp, IndexFilter: indexFilter}, nil
}

func undeclaredAlias(a *expr.Arena, id expr.ID, declared string) (string, bool) {
	var found string
	a.Any(id, func(id expr.ID) bool {
		name, ok := a.AsLabel(id)
		if ok && name != declared {
			found = name
			return true
		}
		return false
	})
	return found, found != ""
}

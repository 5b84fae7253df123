package match

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/authzed/graphplanner/pkg/expr"
)

func TestRewriteLabelToVertex(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	filter := a.And(
		a.Relational(expr.KindRelGT, a.LabelAttribute("v", "age"), a.Constant(18)),
		a.FunctionCall("id", a.Label("v")),
	)
	require.Equal(t, `(VERTEX.age > 18 AND id(VERTEX))`, a.String(RewriteLabelToVertex(a, filter)))
}

func TestRewriteLabelToEdge(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	filter := a.Relational(expr.KindRelLE, a.LabelAttribute("e", "likeness"), a.Constant(90.5))
	require.Equal(t, `EDGE.likeness <= 90.5`, a.String(RewriteLabelToEdge(a, filter)))

	require.Equal(t, `EDGE`, a.String(RewriteLabelToEdge(a, a.Label("e"))))
}

func TestRewriteLabelToVarPropShape(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	a := expr.NewArena()

	rewritten := RewriteLabelToVarProp(a, a.LabelAttribute("v", "name"))
	require.Equal(expr.KindAttribute, a.Kind(rewritten))

	base := a.Child(rewritten, 0)
	require.Equal(expr.KindVariableProperty, a.Kind(base))
	require.Empty(a.Name(base))
	require.Equal("v", a.Prop(base))

	field, ok := a.AsConstant(a.Child(rewritten, 1))
	require.True(ok, "the field must be a constant, not a nested property access")
	require.Equal("name", field)
	require.Equal(`$v.name`, a.String(rewritten))

	require.Equal(`$p`, a.String(RewriteLabelToVarProp(a, a.Label("p"))))
}

func TestDoRewrite(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()
	aliases := AliasTable{"v": AliasNode, "e": AliasEdge}

	rewritten, err := DoRewrite(a, aliases, a.And(a.Label("v"), a.LabelAttribute("e", "x")))
	require.NoError(t, err)
	require.Equal(t, `($v AND $e.x)`, a.String(rewritten))

	require.PanicsWithValue(t, "alias `w` is not declared by the pattern", func() {
		_, _ = DoRewrite(a, aliases, a.Not(a.LabelAttribute("w", "x")))
	})
}

func TestAliasTypeString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "edge", AliasEdge.String())
	require.Equal(t, "AliasType(9)", AliasType(9).String())
}

var kinds = []expr.Kind{
	expr.KindConstant, expr.KindLabel, expr.KindLabelAttribute, expr.KindVariableProperty,
	expr.KindTagProperty, expr.KindRelEQ, expr.KindRelLT, expr.KindLogicalAnd, expr.KindLogicalOr,
	expr.KindUnaryNot, expr.KindFunctionCall, expr.KindPathBuild,
}

func genExpr(a *expr.Arena, depth int) *rapid.Generator[expr.ID] {
	return rapid.Custom(func(t *rapid.T) expr.ID {
		kind := rapid.SampledFrom(kinds).Draw(t, "kind")
		if depth <= 0 {
			kind = rapid.SampledFrom(kinds[:5]).Draw(t, "leaf")
		}
		child := func(label string) expr.ID { return genExpr(a, depth-1).Draw(t, label) }
		alias := rapid.SampledFrom([]string{"v", "e", "p"}).Draw(t, "alias")

		switch kind {
		case expr.KindConstant:
			return a.Constant(rapid.Int64Range(-5, 5).Draw(t, "value"))
		case expr.KindLabel:
			return a.Label(alias)
		case expr.KindLabelAttribute:
			return a.LabelAttribute(alias, rapid.SampledFrom([]string{"age", "name"}).Draw(t, "field"))
		case expr.KindVariableProperty:
			return a.VariableProperty("", alias)
		case expr.KindTagProperty:
			return a.TagProperty("person", "age")
		case expr.KindRelEQ, expr.KindRelLT:
			return a.Relational(kind, child("left"), child("right"))
		case expr.KindLogicalAnd:
			return a.And(child("a"), child("b"), child("c"))
		case expr.KindLogicalOr:
			return a.Or(child("a"), child("b"))
		case expr.KindUnaryNot:
			return a.Not(child("operand"))
		case expr.KindFunctionCall:
			return a.FunctionCall("f", child("arg"))
		default:
			return a.PathBuild(child("a"), child("b"))
		}
	})
}

// nonLabelShape lists the kinds of the nodes that are not inside a label reference, in
// pre-order, with label references collapsed to a single marker.
func nonLabelShape(a *expr.Arena, id expr.ID, replacement func(kind expr.Kind) bool) []string {
	var out []string
	a.Walk(id, func(id expr.ID) bool {
		kind := a.Kind(id)
		if isLabel(a, id) || replacement(kind) {
			out = append(out, "ref")
			return false
		}
		out = append(out, kind.String())
		return true
	})
	return out
}

func nodesOf(a *expr.Arena, id expr.ID) map[expr.ID]struct{} {
	nodes := map[expr.ID]struct{}{}
	a.Walk(id, func(id expr.ID) bool {
		nodes[id] = struct{}{}
		return true
	})
	return nodes
}

func TestRewriteProperties(t *testing.T) {
	t.Parallel()

	rewrites := map[string]struct {
		rewrite  func(*expr.Arena, expr.ID) expr.ID
		resolved func(kind expr.Kind) bool
	}{
		"vertex": {RewriteLabelToVertex, func(k expr.Kind) bool { return k == expr.KindVertex || k == expr.KindAttribute }},
		"edge":   {RewriteLabelToEdge, func(k expr.Kind) bool { return k == expr.KindEdge || k == expr.KindAttribute }},
		"varprop": {RewriteLabelToVarProp, func(k expr.Kind) bool {
			return k == expr.KindVariableProperty || k == expr.KindAttribute
		}},
	}

	for name, tc := range rewrites {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rapid.Check(t, func(rt *rapid.T) {
				a := expr.NewArena()
				input := genExpr(a, 3).Draw(rt, "expr")
				before := a.String(input)

				output := tc.rewrite(a, input)

				if a.Any(output, func(id expr.ID) bool { return isLabel(a, id) }) {
					rt.Fatalf("labels remain in %s", a.String(output))
				}

				// VariableProperty is both a pre-existing and a resolved kind, so both sides apply
				// the same collapsing when comparing shapes.
				wantShape := nonLabelShape(a, input, tc.resolved)
				gotShape := nonLabelShape(a, output, tc.resolved)
				require.Equal(rt, wantShape, gotShape)

				for id := range nodesOf(a, output) {
					if _, shared := nodesOf(a, input)[id]; shared {
						rt.Fatalf("output shares node %d with the input", id)
					}
				}

				require.Equal(rt, before, a.String(input), "input must not be modified")
			})
		})
	}
}

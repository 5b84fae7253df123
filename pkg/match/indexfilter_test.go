package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authzed/graphplanner/pkg/expr"
)

func TestMakeIndexFilterFromMap(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	a := expr.NewArena()

	props := a.Map(
		expr.MapItem{Key: "age", Value: a.Constant(10)},
		expr.MapItem{Key: "name", Value: a.Constant("a")},
	)
	filter := MakeIndexFilterFromMap(a, "person", props, false)
	require.Equal(expr.KindLogicalAnd, a.Kind(filter))

	conjuncts := map[string]int{}
	for _, operand := range a.Children(filter) {
		conjuncts[a.String(operand)]++
	}
	require.Equal(map[string]int{
		`person.age == 10`:    1,
		`person.name == "a"`: 1,
	}, conjuncts)

	first := a.Child(filter, 0)
	require.Equal(expr.KindTagProperty, a.Kind(a.Child(first, 0)))
	mapValue, _ := a.AsMap(props)
	require.NotEqual(mapValue[0].Value, a.Child(first, 1), "map values must be cloned")
}

func TestMakeIndexFilterFromMapEdge(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	props := a.Map(expr.MapItem{Key: "likeness", Value: a.Constant(90)})
	filter := MakeIndexFilterFromMap(a, "like", props, true)
	require.Equal(t, `(like.likeness == 90)`, a.String(filter))
	require.Equal(t, expr.KindEdgeProperty, a.Kind(a.Child(a.Child(filter, 0), 0)))

	require.Equal(t, expr.Nil, MakeIndexFilterFromMap(a, "like", a.Map(), true))
	require.Equal(t, expr.Nil, MakeIndexFilterFromMap(a, "like", a.Constant(1), true))
}

func TestMakeIndexFilterDropsOtherAliases(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	filter := a.And(
		a.And(
			a.Relational(expr.KindRelGT, a.LabelAttribute("v", "age"), a.Constant(18)),
			a.Relational(expr.KindRelLT, a.LabelAttribute("v", "age"), a.Constant(30)),
		),
		a.Relational(expr.KindRelEQ, a.LabelAttribute("w", "city"), a.Constant("x")),
	)

	got := MakeIndexFilter(a, "person", "v", filter, false)
	require.NotEqual(t, expr.Nil, got)
	require.Equal(t, `(person.age > 18 AND person.age < 30)`, a.String(got))
}

func TestMakeIndexFilterDropsNonConformingConjuncts(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	filter := a.And(
		a.Relational(expr.KindRelNE, a.LabelAttribute("v", "age"), a.Constant(1)),
		a.Relational(expr.KindRelGE, a.LabelAttribute("v", "age"), a.LabelAttribute("v", "min")),
		a.FunctionCall("f", a.Label("v")),
		a.Relational(expr.KindRelLE, a.Constant(5), a.LabelAttribute("v", "rank")),
		a.Or(a.Relational(expr.KindRelEQ, a.LabelAttribute("v", "x"), a.Constant(1))),
		a.Relational(expr.KindRelEQ, a.LabelAttribute("v", "name"), a.Constant("bob")),
	)

	got := MakeIndexFilter(a, "person", "v", filter, false)
	require.Equal(t, `(5 <= person.rank AND person.name == "bob")`, a.String(got))
}

func TestMakeIndexFilterLeftFolds(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	a := expr.NewArena()

	filter := a.And(
		a.Relational(expr.KindRelEQ, a.LabelAttribute("e", "a"), a.Constant(1)),
		a.Relational(expr.KindRelEQ, a.LabelAttribute("e", "b"), a.Constant(2)),
		a.Relational(expr.KindRelEQ, a.LabelAttribute("e", "c"), a.Constant(3)),
	)
	got := MakeIndexFilter(a, "like", "e", filter, true)
	require.Equal(`((like.a == 1 AND like.b == 2) AND like.c == 3)`, a.String(got))
	require.Equal(2, a.NumChildren(got))
	require.Equal(expr.KindLogicalAnd, a.Kind(a.Child(got, 0)))
}

func TestMakeIndexFilterNoMatch(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	cases := map[string]expr.ID{
		"or at the top": a.Or(
			a.Relational(expr.KindRelEQ, a.LabelAttribute("v", "age"), a.Constant(1)),
			a.Relational(expr.KindRelEQ, a.LabelAttribute("v", "age"), a.Constant(2)),
		),
		"non-constant side": a.Relational(expr.KindRelEQ, a.LabelAttribute("v", "age"), a.InputProperty("x")),
		"not equal at the top": a.Relational(expr.KindRelNE, a.LabelAttribute("v", "age"), a.Constant(1)),
		"other alias only": a.And(
			a.Relational(expr.KindRelEQ, a.LabelAttribute("w", "age"), a.Constant(1)),
		),
		"nil filter": expr.Nil,
	}
	for name, filter := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, expr.Nil, MakeIndexFilter(a, "person", "v", filter, false))
		})
	}
}

func TestMakeIndexFilterSingleComparison(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	filter := a.Relational(expr.KindRelEQ, a.LabelAttribute("v", "name"), a.Constant("x"))
	got := MakeIndexFilter(a, "person", "v", filter, false)
	require.Equal(t, expr.KindRelEQ, a.Kind(got))
	require.Equal(t, `person.name == "x"`, a.String(got))
}

func TestNodeIndexFilter(t *testing.T) {
	t.Parallel()
	a := expr.NewArena()

	filter := a.Relational(expr.KindRelGT, a.LabelAttribute("v", "age"), a.Constant(3))
	props := a.Map(expr.MapItem{Key: "name", Value: a.Constant("a")})

	withMap := NodeIndexFilter(a, NodePattern{Alias: "v", Props: props, Filter: filter}, "person")
	require.Equal(t, `(person.name == "a")`, a.String(withMap))

	withFilter := NodeIndexFilter(a, NodePattern{Alias: "v", Filter: filter}, "person")
	require.Equal(t, `person.age > 3`, a.String(withFilter))

	require.Equal(t, expr.Nil, NodeIndexFilter(a, NodePattern{Alias: "v"}, "person"))
}

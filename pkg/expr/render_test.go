package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	a := NewArena()
	tcs := []struct {
		name     string
		build    func() ID
		expected string
	}{
		{"constant string", func() ID { return a.Constant("x") }, `"x"`},
		{"constant null", func() ID { return a.Constant(nil) }, "NULL"},
		{"constant float", func() ID { return a.Constant(2.5) }, "2.5"},
		{"label", func() ID { return a.Label("v") }, "v"},
		{"label attribute", func() ID { return a.LabelAttribute("v", "age") }, "v.age"},
		{"vertex attribute", func() ID { return a.Attribute(a.Vertex(), a.Constant("age")) }, "VERTEX.age"},
		{"indexed attribute", func() ID { return a.Attribute(a.InputProperty("l"), a.Constant(int64(1))) }, "$-.l[1]"},
		{"edge", func() ID { return a.Edge() }, "EDGE"},
		{"pattern variable", func() ID { return a.VariableProperty("", "v") }, "$v"},
		{"plan variable", func() ID { return a.VariableProperty("__Project_1", "_vid") }, "$__Project_1._vid"},
		{"input", func() ID { return a.InputProperty("_vid") }, "$-._vid"},
		{"tag property", func() ID { return a.TagProperty("person", "age") }, "person.age"},
		{"edge property", func() ID { return a.EdgeProperty("like", "likeness") }, "like.likeness"},
		{"source property", func() ID { return a.SourceProperty("person", "name") }, "$^.person.name"},
		{"dest property", func() ID { return a.DestProperty("person", "name") }, "$$.person.name"},
		{"relational", func() ID { return a.Relational(KindRelLE, a.InputProperty("a"), a.Constant(3)) }, "$-.a <= 3"},
		{"not equal", func() ID { return a.Relational(KindRelNE, a.InputProperty("a"), a.Constant(3)) }, "$-.a != 3"},
		{"and", func() ID { return a.And(a.Constant(true), a.Constant(false)) }, "(true AND false)"},
		{"or", func() ID { return a.Or(a.Constant(true), a.Constant(false)) }, "(true OR false)"},
		{"not", func() ID { return a.Not(a.Constant(true)) }, "!(true)"},
		{
			"end node",
			func() ID {
				return a.Attribute(a.FunctionCall("endNode", a.InputProperty("_path")), a.Constant("_vid"))
			},
			"endNode($-._path)._vid",
		},
		{"path", func() ID { return a.PathBuild(a.Vertex(), a.Edge()) }, "PathBuild[VERTEX, EDGE]"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, a.String(tc.build()))
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "LabelAttribute", KindLabelAttribute.String())
	require.Equal(t, "Kind(200)", Kind(200).String())
	require.True(t, KindRelNE.IsRelational())
	require.False(t, KindRelNE.IsIndexable())
	require.True(t, KindRelGE.IsIndexable())
	require.True(t, KindLogicalOr.IsLogical())
}

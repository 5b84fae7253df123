package planfile

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/qctx"
	"github.com/authzed/graphplanner/pkg/schema"
	"github.com/authzed/graphplanner/pkg/testutil"
	"github.com/authzed/graphplanner/pkg/traverse"
)

func parseNode(t *testing.T, doc string) *yaml.Node {
	t.Helper()

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))
	require.Len(t, node.Content, 1)
	return node.Content[0]
}

func TestDecodeExpr(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		doc      string
		expected string
	}{
		{"int constant", `{const: 5}`, `5`},
		{"string constant", `{const: "a"}`, `"a"`},
		{"float constant", `{const: 1.5}`, `1.5`},
		{"bool constant", `{const: true}`, `true`},
		{"null constant", `{const: null}`, `NULL`},
		{"label", `{label: v}`, `v`},
		{"label attribute", `{labelattr: [v, age]}`, `v.age`},
		{"source property", `{src: [person, name]}`, `$^.person.name`},
		{"destination property", `{dst: [person, name]}`, `$$.person.name`},
		{"tag property", `{tagprop: [person, age]}`, `person.age`},
		{"edge property", `{edgeprop: [like, likeness]}`, `like.likeness`},
		{"input property", `{input: id}`, `$-.id`},
		{"variable property", `{var: [piped, id]}`, `$piped.id`},
		{"relational", `{gt: [{labelattr: [e, likeness]}, {const: 5}]}`, `e.likeness > 5`},
		{
			"conjunction",
			`{and: [{eq: [{label: v}, {const: 1}]}, {ne: [{input: a}, {const: 2}]}]}`,
			`(v == 1 AND $-.a != 2)`,
		},
		{"disjunction", `{or: [{label: a}, {label: b}, {label: c}]}`, `(a OR b OR c)`},
		{"negation", `{not: {label: v}}`, `!(v)`},
		{"call", `{call: {name: id, args: [{label: v}]}}`, `id(v)`},
		{"map keeps key order", `{map: {name: {const: a}, age: {const: 10}}}`, `{name: "a", age: 10}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			a := expr.NewArena()
			id, err := DecodeExpr(a, parseNode(t, tc.doc))
			require.NoError(err)
			require.Equal(tc.expected, a.String(id))
		})
	}
}

func TestDecodeExprZeroNode(t *testing.T) {
	t.Parallel()

	id, err := DecodeExpr(expr.NewArena(), &yaml.Node{})
	require.NoError(t, err)
	require.Equal(t, expr.Nil, id)
}

func TestDecodeExprErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		doc         string
		expectedErr string
	}{
		{"empty mapping", `{}`, "exactly one key"},
		{"two keys", `{const: 1, label: v}`, "exactly one key"},
		{"scalar", `5`, "exactly one key"},
		{"unknown kind", `{bogus: 1}`, "unknown expression `bogus`"},
		{"relational arity", `{eq: [{const: 1}]}`, "expected 2 operands, found 1"},
		{"relational operands not a list", `{eq: {const: 1}}`, "list of expressions"},
		{"single conjunct", `{and: [{const: 1}]}`, "at least two operands"},
		{"short pair", `{src: [person]}`, "[name, property] pair"},
		{"non scalar constant", `{const: [1]}`, "scalar value"},
		{"empty label", `{label: ""}`, "expected a name"},
		{"unnamed call", `{call: {args: []}}`, "function name"},
		{"map of scalars", `{map: [1, 2]}`, "expects a mapping"},
		{"nested error", `{not: {bogus: 1}}`, "unknown expression `bogus`"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeExpr(expr.NewArena(), parseNode(t, tc.doc))
			require.ErrorContains(t, err, tc.expectedErr)
		})
	}
}

func TestParseSteps(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value        string
		expectedM    uint32
		expectedN    uint32
		expectedMToN bool
	}{
		{"", 1, 1, false},
		{"1", 1, 1, false},
		{"3", 3, 3, false},
		{"1..3", 1, 3, true},
		{" 2 .. 4 ", 2, 4, true},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			m, n, ranged, err := parseSteps(tc.value)
			require.NoError(err)
			require.Equal(tc.expectedM, m)
			require.Equal(tc.expectedN, n)
			require.Equal(tc.expectedMToN, ranged)
		})
	}

	for _, invalid := range []string{"x", "1..", "..2", "-1", "1..y"} {
		_, _, _, err := parseSteps(invalid)
		require.Error(t, err, invalid)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for value, expected := range map[string]plan.Direction{
		"":          plan.DirectionOut,
		"OUT":       plan.DirectionOut,
		"in":        plan.DirectionIn,
		"reversely": plan.DirectionIn,
		"both":      plan.DirectionBoth,
		"bidirect":  plan.DirectionBoth,
	} {
		direction, err := parseDirection(value)
		require.NoError(err)
		require.Equal(expected, direction, value)
	}

	_, err := parseDirection("sideways")
	require.ErrorContains(err, "unknown direction `sideways`")
}

func TestParseRejectsInvalidFiles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		doc         string
		expectedErr string
	}{
		{"empty", ``, "empty plan file"},
		{"unknown field", "space: s\nbogus: 1\ntraversal: {from: {vids: [1]}}\n", "field bogus not found"},
		{"no space", "traversal: {from: {vids: [1]}}\n", "must name a space"},
		{"no statement", "space: s\n", "exactly one of"},
		{"two statements", "space: s\ntraversal: {}\nfetch: {}\n", "exactly one of"},
		{"unnamed input", "space: s\ninputs: [{columns: [a]}]\ntraversal: {}\n", "need a name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tc.doc))
			require.ErrorContains(t, err, tc.expectedErr)
		})
	}
}

func loadFixture(t *testing.T, name string) (*File, *qctx.QueryContext) {
	t.Helper()
	require := require.New(t)

	file, err := os.Open("testdata/" + name)
	require.NoError(err)
	t.Cleanup(func() { _ = file.Close() })

	f, err := Parse(file)
	require.NoError(err)

	store, err := schema.NewMemStoreFromDefinitions(f.Definition())
	require.NoError(err)
	return f, qctx.New(f.Space, store)
}

func TestDefinition(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	f, _ := loadFixture(t, "go_m_to_n.yaml")
	def := f.Definition()
	require.Equal("social", def.Name)
	require.Len(def.Tags, 1)
	require.Equal([]schema.PropDef{{Name: "name", Type: "string"}, {Name: "age", Type: "int"}}, def.Tags[0].Props)
	require.Len(def.Edges, 2)
	testutil.RequireEqualEmptyNil(t, schema.TypeDefinition{Name: "follow"}, def.Edges[1])
}

func TestCompileMToNTraversal(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	f, qc := loadFixture(t, "go_m_to_n.yaml")
	compiled, err := Compile(qc, f)
	require.NoError(err)
	require.Equal(expr.Nil, compiled.IndexFilter)

	g := qc.Plan()
	root := compiled.Plan.Root
	require.Equal(plan.KindDedup, g.Kind(root))
	require.Equal([]string{"src", "like.likeness", "friend"}, g.ColNames(root))

	counts := g.CountKinds(root)
	require.Equal(3, counts[plan.KindGetNeighbors])
	require.Equal(2, counts[plan.KindUnion])
	require.Equal(1, counts[plan.KindLeftJoin])
	require.Equal(plan.KindValues, g.Kind(compiled.Plan.Tail))
	require.Len(g.Node(compiled.Plan.Tail).Rows, 2)
}

func TestCompilePipedTraversal(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	f, qc := loadFixture(t, "go_piped.yaml")
	compiled, err := Compile(qc, f)
	require.NoError(err)

	g := qc.Plan()
	require.Equal([]string{"label", "dst"}, g.ColNames(compiled.Plan.Root))
	require.Equal("piped", g.Node(compiled.Plan.Tail).InputVar)

	counts := g.CountKinds(compiled.Plan.Root)
	require.Equal(2, counts[plan.KindGetNeighbors])
	require.Equal(2, counts[plan.KindInnerJoin])

	gn := g.Node(g.Find(compiled.Plan.Root, plan.KindGetNeighbors)[0])
	require.Equal(plan.DirectionBoth, gn.Direction)
	require.Len(gn.EdgeProps, 2)
}

func TestCompileFetch(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	f, qc := loadFixture(t, "fetch_node.yaml")
	compiled, err := Compile(qc, f)
	require.NoError(err)

	a, g := qc.Exprs(), qc.Plan()
	require.Equal(`(person.age == 10 AND person.name == "a")`, a.String(compiled.IndexFilter))

	root := g.Node(compiled.Plan.Root)
	require.Equal(plan.KindProject, root.Kind)
	require.Equal([]string{"_path"}, root.ColNames)

	filters := g.Find(compiled.Plan.Root, plan.KindFilter)
	require.Len(filters, 1)
	require.Equal("VERTEX.age >= 10", a.String(g.Node(filters[0]).Condition))

	gv := g.Node(g.Find(compiled.Plan.Root, plan.KindGetVertices)[0])
	require.Len(gv.VertexProps, 2)
	require.Equal(plan.KindValues, g.Kind(compiled.Plan.Tail))
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	const schemaDoc = `
space: social
schema:
  tags: [{name: person, props: [{name: name, type: string}]}]
  edges: [{name: like}]
`
	testCases := []struct {
		name        string
		doc         string
		expectedErr string
	}{
		{"no start", "traversal: {over: {edges: [like]}}", "needs a start"},
		{"two starts", "traversal: {from: {vids: [1], var: piped}}", "either `vids` or `var`"},
		{"var without src", "inputs: [{var: piped, columns: [id]}]\ntraversal: {from: {var: piped}}", "needs a `src` expression"},
		{"undeclared var", "traversal: {from: {var: other, src: {input: id}}}", "undeclared variable `other`"},
		{"bad steps", "traversal: {from: {vids: [1]}, steps: many}", "invalid step count"},
		{"bad direction", "traversal: {from: {vids: [1]}, over: {direction: up}}", "unknown direction"},
		{"empty yield", "traversal: {from: {vids: [1]}, yield: [{alias: x}]}", "yield 0 has no expression"},
		{"schema failure", "traversal: {from: {vids: [1]}, yield: [{expr: {src: [robot, name]}}]}", "robot"},
		{"fetch without vids", "fetch: {node: {alias: v}}", "at least one vid"},
		{"fetch without alias", "fetch: {vids: [1]}", "needs an alias"},
		{
			"fetch filter on another alias",
			"fetch: {vids: [1], node: {alias: v, where: {eq: [{labelattr: [w, age]}, {const: 1}]}}}",
			"references alias `w`",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			f, err := ParseBytes([]byte(schemaDoc + tc.doc + "\n"))
			require.NoError(err)

			store, err := schema.NewMemStoreFromDefinitions(f.Definition())
			require.NoError(err)

			_, err = Compile(qctx.New(f.Space, store), f)
			require.ErrorContains(err, tc.expectedErr)
		})
	}
}

func TestCompileRejectsOtherSpace(t *testing.T) {
	t.Parallel()

	f, _ := loadFixture(t, "go_piped.yaml")
	store, err := schema.NewMemStoreFromDefinitions(f.Definition(), schema.SpaceDefinition{Name: "other"})
	require.NoError(t, err)

	_, err = Compile(qctx.New("other", store), f)
	require.ErrorContains(t, err, "plan file targets space `social`, query context uses `other`")
}

func TestCompileRejectsUnknownSpace(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	f, _ := loadFixture(t, "go_piped.yaml")
	store, err := schema.NewMemStoreFromDefinitions(schema.SpaceDefinition{Name: "other"})
	require.NoError(err)

	_, err = Compile(qctx.New("social", store), f)
	var notFound schema.SpaceNotFoundError
	require.ErrorAs(err, &notFound)
	require.Equal("social", notFound.NotFoundSpaceName())
	require.ErrorContains(err, "plan file targets space `social`")
}

func TestCompileHonorsTraverseOptions(t *testing.T) {
	t.Parallel()

	f, qc := loadFixture(t, "go_m_to_n.yaml")
	_, err := Compile(qc, f, traverse.WithMaxSteps(2))
	require.ErrorAs(t, err, &traverse.StepLimitError{})
}

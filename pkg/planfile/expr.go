package planfile

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/authzed/graphplanner/pkg/expr"
)

var relationalKeys = map[string]expr.Kind{
	"eq": expr.KindRelEQ,
	"ne": expr.KindRelNE,
	"lt": expr.KindRelLT,
	"le": expr.KindRelLE,
	"gt": expr.KindRelGT,
	"ge": expr.KindRelGE,
}

// DecodeExpr allocates the expression described by node in a. Every expression is a mapping
// with a single key naming its kind:
//
//	{const: 5}                     constant
//	{label: v}                     alias reference
//	{labelattr: [v, age]}          alias attribute
//	{src: [person, name]}          source vertex property, $^.person.name
//	{dst: [person, name]}          destination vertex property, $$.person.name
//	{tagprop: [person, name]}      tag property
//	{edgeprop: [like, likeness]}   edge property
//	{input: col}                   input column, $-.col
//	{var: [scope, prop]}           variable property
//	{eq: [l, r]}                   also ne, lt, le, gt, ge
//	{and: [...]}, {or: [...]}      logical connectives
//	{not: e}                       negation
//	{call: {name: f, args: [...]}} function call
//	{map: {k: e, ...}}             property map
//
// A zero node decodes to expr.Nil.
func DecodeExpr(a *expr.Arena, node *yaml.Node) (expr.ID, error) {
	if node == nil || node.Kind == 0 {
		return expr.Nil, nil
	}
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return expr.Nil, fmt.Errorf("line %d: an expression is a mapping with exactly one key", node.Line)
	}

	key, value := node.Content[0].Value, node.Content[1]
	if kind, ok := relationalKeys[key]; ok {
		operands, err := decodeList(a, value, 2)
		if err != nil {
			return expr.Nil, err
		}
		return a.Relational(kind, operands[0], operands[1]), nil
	}

	switch key {
	case "const":
		v, err := decodeScalar(value)
		if err != nil {
			return expr.Nil, err
		}
		return a.Constant(v), nil

	case "label":
		name, err := decodeString(value)
		if err != nil {
			return expr.Nil, err
		}
		return a.Label(name), nil

	case "input":
		col, err := decodeString(value)
		if err != nil {
			return expr.Nil, err
		}
		return a.InputProperty(col), nil

	case "labelattr", "src", "dst", "tagprop", "edgeprop", "var":
		pair, err := decodePair(value)
		if err != nil {
			return expr.Nil, err
		}
		switch key {
		case "labelattr":
			return a.LabelAttribute(pair[0], pair[1]), nil
		case "src":
			return a.SourceProperty(pair[0], pair[1]), nil
		case "dst":
			return a.DestProperty(pair[0], pair[1]), nil
		case "tagprop":
			return a.TagProperty(pair[0], pair[1]), nil
		case "edgeprop":
			return a.EdgeProperty(pair[0], pair[1]), nil
		default:
			return a.VariableProperty(pair[0], pair[1]), nil
		}

	case "and", "or":
		operands, err := decodeList(a, value, -1)
		if err != nil {
			return expr.Nil, err
		}
		if len(operands) < 2 {
			return expr.Nil, fmt.Errorf("line %d: `%s` needs at least two operands", value.Line, key)
		}
		if key == "and" {
			return a.And(operands...), nil
		}
		return a.Or(operands...), nil

	case "not":
		operand, err := DecodeExpr(a, value)
		if err != nil {
			return expr.Nil, err
		}
		return a.Not(operand), nil

	case "call":
		var call struct {
			Name string      `yaml:"name"`
			Args []yaml.Node `yaml:"args"`
		}
		if err := value.Decode(&call); err != nil {
			return expr.Nil, err
		}
		if call.Name == "" {
			return expr.Nil, fmt.Errorf("line %d: a call needs a function name", value.Line)
		}
		args := make([]expr.ID, 0, len(call.Args))
		for i := range call.Args {
			arg, err := DecodeExpr(a, &call.Args[i])
			if err != nil {
				return expr.Nil, err
			}
			args = append(args, arg)
		}
		return a.FunctionCall(call.Name, args...), nil

	case "map":
		if value.Kind != yaml.MappingNode {
			return expr.Nil, fmt.Errorf("line %d: `map` expects a mapping", value.Line)
		}
		items := make([]expr.MapItem, 0, len(value.Content)/2)
		for i := 0; i < len(value.Content); i += 2 {
			item, err := DecodeExpr(a, value.Content[i+1])
			if err != nil {
				return expr.Nil, err
			}
			items = append(items, expr.MapItem{Key: value.Content[i].Value, Value: item})
		}
		return a.Map(items...), nil

	default:
		return expr.Nil, fmt.Errorf("line %d: unknown expression `%s`", node.Line, key)
	}
}

func decodeList(a *expr.Arena, node *yaml.Node, want int) ([]expr.ID, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of expressions", node.Line)
	}
	if want >= 0 && len(node.Content) != want {
		return nil, fmt.Errorf("line %d: expected %d operands, found %d", node.Line, want, len(node.Content))
	}

	out := make([]expr.ID, 0, len(node.Content))
	for _, item := range node.Content {
		id, err := DecodeExpr(a, item)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func decodePair(node *yaml.Node) ([2]string, error) {
	var pair []string
	if err := node.Decode(&pair); err != nil || len(pair) != 2 {
		return [2]string{}, fmt.Errorf("line %d: expected a [name, property] pair", node.Line)
	}
	return [2]string{pair[0], pair[1]}, nil
}

func decodeString(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Value == "" {
		return "", fmt.Errorf("line %d: expected a name", node.Line)
	}
	return node.Value, nil
}

// decodeScalar resolves a YAML scalar to the constant value it denotes.
func decodeScalar(node *yaml.Node) (any, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: expected a scalar value", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		return strconv.ParseBool(node.Value)
	case "!!int":
		var v int64
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return node.Value, nil
	}
}

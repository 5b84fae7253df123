package expr

import "strconv"

// Kind is the tag of an expression node.
type Kind uint8

const (
	KindInvalid Kind = iota

	// KindConstant holds a scalar Value.
	KindConstant

	// KindLabel references a pattern alias before it is resolved.
	KindLabel

	// KindLabelAttribute is `alias.field` before resolution. Its children are a Label and a
	// string Constant holding the field name.
	KindLabelAttribute

	// KindAttribute is `base.field`; children are the base and a Constant field name.
	KindAttribute

	// KindVertex evaluates to the vertex of the current row.
	KindVertex

	// KindEdge evaluates to the edge of the current row.
	KindEdge

	// KindVariableProperty is `$scope.prop`, a column of a named plan variable. An empty scope
	// refers to a pattern variable bound in the current row.
	KindVariableProperty

	// KindInputProperty is `$-.prop`, a column of the operator's input.
	KindInputProperty

	KindTagProperty
	KindEdgeProperty
	KindSourceProperty
	KindDestProperty

	KindRelEQ
	KindRelNE
	KindRelLT
	KindRelLE
	KindRelGT
	KindRelGE

	KindLogicalAnd
	KindLogicalOr

	KindUnaryNot

	KindFunctionCall
	KindPathBuild
	KindMap

	kindCount
)

var kindNames = [...]string{
	KindInvalid:          "Invalid",
	KindConstant:         "Constant",
	KindLabel:            "Label",
	KindLabelAttribute:   "LabelAttribute",
	KindAttribute:        "Attribute",
	KindVertex:           "Vertex",
	KindEdge:             "Edge",
	KindVariableProperty: "VariableProperty",
	KindInputProperty:    "InputProperty",
	KindTagProperty:      "TagProperty",
	KindEdgeProperty:     "EdgeProperty",
	KindSourceProperty:   "SourceProperty",
	KindDestProperty:     "DestProperty",
	KindRelEQ:            "RelEQ",
	KindRelNE:            "RelNE",
	KindRelLT:            "RelLT",
	KindRelLE:            "RelLE",
	KindRelGT:            "RelGT",
	KindRelGE:            "RelGE",
	KindLogicalAnd:       "LogicalAnd",
	KindLogicalOr:        "LogicalOr",
	KindUnaryNot:         "UnaryNot",
	KindFunctionCall:     "FunctionCall",
	KindPathBuild:        "PathBuild",
	KindMap:              "Map",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsRelational returns true for every comparison kind, including RelNE.
func (k Kind) IsRelational() bool {
	switch k {
	case KindRelEQ, KindRelNE, KindRelLT, KindRelLE, KindRelGT, KindRelGE:
		return true
	default:
		return false
	}
}

// IsIndexable returns true for the comparison kinds an index lookup can serve.
func (k Kind) IsIndexable() bool {
	switch k {
	case KindRelEQ, KindRelLT, KindRelLE, KindRelGT, KindRelGE:
		return true
	default:
		return false
	}
}

// IsLogical returns true for the n-ary boolean connectives.
func (k Kind) IsLogical() bool {
	return k == KindLogicalAnd || k == KindLogicalOr
}

func (k Kind) operator() string {
	switch k {
	case KindRelEQ:
		return "=="
	case KindRelNE:
		return "!="
	case KindRelLT:
		return "<"
	case KindRelLE:
		return "<="
	case KindRelGT:
		return ">"
	case KindRelGE:
		return ">="
	case KindLogicalAnd:
		return "AND"
	case KindLogicalOr:
		return "OR"
	default:
		return "?"
	}
}

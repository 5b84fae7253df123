package expr

import (
	"slices"

	"github.com/authzed/graphplanner/pkg/planerrors"
)

// ID is a handle to a node in an Arena.
type ID uint32

// Nil is the handle of no expression.
const Nil ID = 0

// Value is the payload of a Constant: nil, bool, int64, float64 or string.
type Value = any

// MapItem is one entry of a Map expression.
type MapItem struct {
	Key   string
	Value ID
}

type node struct {
	kind     Kind
	name     string
	prop     string
	value    Value
	keys     []string
	children []ID
}

// Arena allocates and owns every expression node of one compile pass. It is not safe for
// concurrent use; a compile pass is single threaded.
type Arena struct {
	nodes []node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	// Slot 0 backs Nil and is never handed out.
	return &Arena{nodes: make([]node, 1, 64)}
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes) - 1
}

func (a *Arena) add(n node) ID {
	a.nodes = append(a.nodes, n)
	return ID(len(a.nodes) - 1)
}

func (a *Arena) get(id ID) node {
	if id == Nil || int(id) >= len(a.nodes) {
		planerrors.MustPanicf("expression handle %d is not allocated in this arena", id)
	}
	return a.nodes[id]
}

// Valid returns true if the handle refers to a node of this arena.
func (a *Arena) Valid(id ID) bool {
	return id != Nil && int(id) < len(a.nodes)
}

// Constant allocates a constant. Integer types are normalized to int64 and float32 to
// float64; any other type panics.
func (a *Arena) Constant(v any) ID {
	return a.add(node{kind: KindConstant, value: normalizeValue(v)})
}

func normalizeValue(v any) Value {
	switch typed := v.(type) {
	case nil, bool, int64, float64, string:
		return typed
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case uint32:
		return int64(typed)
	case float32:
		return float64(typed)
	default:
		planerrors.MustPanicf("unsupported constant type %T", v)
		return nil
	}
}

// Label allocates a reference to a pattern alias.
func (a *Arena) Label(name string) ID {
	return a.add(node{kind: KindLabel, name: name})
}

// LabelAttribute allocates `alias.field`.
func (a *Arena) LabelAttribute(alias, field string) ID {
	label := a.Label(alias)
	fieldName := a.Constant(field)
	return a.add(node{kind: KindLabelAttribute, children: []ID{label, fieldName}})
}

// Attribute allocates `base.right`, where right is usually a string Constant.
func (a *Arena) Attribute(base, right ID) ID {
	return a.add(node{kind: KindAttribute, children: []ID{base, right}})
}

// Vertex allocates a reference to the current row's vertex.
func (a *Arena) Vertex() ID {
	return a.add(node{kind: KindVertex})
}

// Edge allocates a reference to the current row's edge.
func (a *Arena) Edge() ID {
	return a.add(node{kind: KindEdge})
}

// VariableProperty allocates `$scope.prop`.
func (a *Arena) VariableProperty(scope, prop string) ID {
	return a.add(node{kind: KindVariableProperty, name: scope, prop: prop})
}

// InputProperty allocates `$-.prop`.
func (a *Arena) InputProperty(prop string) ID {
	return a.add(node{kind: KindInputProperty, prop: prop})
}

// TagProperty allocates a property of a tag, in the form index lookups consume.
func (a *Arena) TagProperty(tag, prop string) ID {
	return a.add(node{kind: KindTagProperty, name: tag, prop: prop})
}

// EdgeProperty allocates a property of an edge type.
func (a *Arena) EdgeProperty(edge, prop string) ID {
	return a.add(node{kind: KindEdgeProperty, name: edge, prop: prop})
}

// SourceProperty allocates `$^.tag.prop`, a property of a traversal's source vertex.
func (a *Arena) SourceProperty(tag, prop string) ID {
	return a.add(node{kind: KindSourceProperty, name: tag, prop: prop})
}

// DestProperty allocates `$$.tag.prop`, a property of a traversal's destination vertex.
func (a *Arena) DestProperty(tag, prop string) ID {
	return a.add(node{kind: KindDestProperty, name: tag, prop: prop})
}

// Relational allocates a comparison. kind must be relational.
func (a *Arena) Relational(kind Kind, left, right ID) ID {
	if !kind.IsRelational() {
		planerrors.MustPanicf("%s is not a relational kind", kind)
	}
	return a.add(node{kind: kind, children: []ID{left, right}})
}

// And allocates a logical conjunction over the operands, in order.
func (a *Arena) And(operands ...ID) ID {
	return a.add(node{kind: KindLogicalAnd, children: slices.Clone(operands)})
}

// Or allocates a logical disjunction over the operands, in order.
func (a *Arena) Or(operands ...ID) ID {
	return a.add(node{kind: KindLogicalOr, children: slices.Clone(operands)})
}

// Not allocates a logical negation.
func (a *Arena) Not(operand ID) ID {
	return a.add(node{kind: KindUnaryNot, children: []ID{operand}})
}

// FunctionCall allocates `name(args...)`.
func (a *Arena) FunctionCall(name string, args ...ID) ID {
	return a.add(node{kind: KindFunctionCall, name: name, children: slices.Clone(args)})
}

// PathBuild allocates a path literal out of vertex, edge or path valued items.
func (a *Arena) PathBuild(items ...ID) ID {
	return a.add(node{kind: KindPathBuild, children: slices.Clone(items)})
}

// Map allocates an ordered property map.
func (a *Arena) Map(items ...MapItem) ID {
	keys := make([]string, len(items))
	values := make([]ID, len(items))
	for i, item := range items {
		keys[i] = item.Key
		values[i] = item.Value
	}
	return a.add(node{kind: KindMap, keys: keys, children: values})
}

// Kind returns the kind of the node, or KindInvalid for Nil.
func (a *Arena) Kind(id ID) Kind {
	if id == Nil {
		return KindInvalid
	}
	return a.get(id).kind
}

// Children returns a copy of the node's ordered children.
func (a *Arena) Children(id ID) []ID {
	return slices.Clone(a.get(id).children)
}

// NumChildren returns the number of children of the node.
func (a *Arena) NumChildren(id ID) int {
	return len(a.get(id).children)
}

// Child returns the i-th child of the node.
func (a *Arena) Child(id ID, i int) ID {
	return a.get(id).children[i]
}

// Name returns the name carried by Label, FunctionCall, VariableProperty (scope) and the
// schema property kinds (type name).
func (a *Arena) Name(id ID) string {
	return a.get(id).name
}

// Prop returns the property name carried by the property kinds.
func (a *Arena) Prop(id ID) string {
	return a.get(id).prop
}

// Clone deep-copies the subtree rooted at id. Cloning Nil returns Nil.
func (a *Arena) Clone(id ID) ID {
	if id == Nil {
		return Nil
	}
	n := a.get(id)
	if len(n.children) == 0 {
		return a.add(n)
	}

	children := make([]ID, len(n.children))
	for i, child := range n.children {
		children[i] = a.Clone(child)
	}
	return a.rebuild(n, children)
}

// rebuild allocates a copy of n's scalar fields over new children.
func (a *Arena) rebuild(n node, children []ID) ID {
	return a.add(node{
		kind:     n.kind,
		name:     n.name,
		prop:     n.prop,
		value:    n.value,
		keys:     slices.Clone(n.keys),
		children: children,
	})
}

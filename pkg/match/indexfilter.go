package match

import (
	"github.com/authzed/graphplanner/pkg/expr"
)

func propertyAccessor(a *expr.Arena, label, prop string, isEdge bool) expr.ID {
	if isEdge {
		return a.EdgeProperty(label, prop)
	}
	return a.TagProperty(label, prop)
}

// MakeIndexFilterFromMap turns the property map of a node or edge pattern into the conjunction
// `label.key == value` over every item, using edge property accessors when isEdge is set.
// Returns expr.Nil if props is not a non-empty map.
func MakeIndexFilterFromMap(a *expr.Arena, label string, props expr.ID, isEdge bool) expr.ID {
	items, ok := a.AsMap(props)
	if !ok || len(items) == 0 {
		return expr.Nil
	}

	operands := make([]expr.ID, 0, len(items))
	for _, item := range items {
		operands = append(operands, a.Relational(
			expr.KindRelEQ,
			propertyAccessor(a, label, item.Key, isEdge),
			a.Clone(item.Value),
		))
	}
	return a.And(operands...)
}

// MakeIndexFilter extracts the index eligible part of filter for alias: the top-level
// conjuncts comparing `alias.field` against a constant with ==, <, <=, > or >=. Each is
// rewritten to compare the property accessor of label, keeping the side the field was on, and
// the results are conjoined left to right. Conjuncts of any other shape are dropped. Returns
// expr.Nil when the filter is not a comparison or conjunction, or when nothing qualifies.
func MakeIndexFilter(a *expr.Arena, label, alias string, filter expr.ID, isEdge bool) expr.ID {
	var conjuncts []expr.ID
	switch kind := a.Kind(filter); {
	case kind.IsIndexable():
		conjuncts = []expr.ID{filter}
	case kind == expr.KindLogicalAnd:
		conjuncts = a.FlattenAnds(filter)
	default:
		return expr.Nil
	}

	var root expr.ID
	for _, conjunct := range conjuncts {
		rel, ok := indexRelational(a, label, alias, conjunct, isEdge)
		if !ok {
			continue
		}
		if root == expr.Nil {
			root = rel
			continue
		}
		root = a.And(root, rel)
	}
	return root
}

func indexRelational(a *expr.Arena, label, alias string, conjunct expr.ID, isEdge bool) (expr.ID, bool) {
	binary, ok := a.AsBinary(conjunct)
	if !ok || !binary.Kind.IsIndexable() {
		return expr.Nil, false
	}

	fieldOnLeft := true
	la, ok := a.AsLabelAttribute(binary.Left)
	constant := binary.Right
	if !ok {
		fieldOnLeft = false
		la, ok = a.AsLabelAttribute(binary.Right)
		constant = binary.Left
	}
	if !ok || a.Kind(constant) != expr.KindConstant || la.Alias != alias {
		return expr.Nil, false
	}

	accessor := propertyAccessor(a, label, la.Field, isEdge)
	if fieldOnLeft {
		return a.Relational(binary.Kind, accessor, a.Clone(constant)), true
	}
	return a.Relational(binary.Kind, a.Clone(constant), accessor), true
}

// NodePattern is one node of a match pattern as produced by the validator.
type NodePattern struct {
	Alias  string
	Labels []string

	// Props is the inline property map, or expr.Nil.
	Props expr.ID

	// Filter is the predicate of the pattern's WHERE clause, or expr.Nil.
	Filter expr.ID
}

// NodeIndexFilter returns the index filter of a node pattern over tag. The inline property map
// is preferred; otherwise the filter is searched for conjuncts on the node's alias.
func NodeIndexFilter(a *expr.Arena, node NodePattern, tag string) expr.ID {
	if node.Props != expr.Nil {
		return MakeIndexFilterFromMap(a, tag, node.Props, false)
	}
	if node.Filter != expr.Nil {
		return MakeIndexFilter(a, tag, node.Alias, node.Filter, false)
	}
	return expr.Nil
}

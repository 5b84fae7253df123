package expr

// LabelAttr is the checked view of a LabelAttribute node.
type LabelAttr struct {
	Alias string
	Field string

	// FieldID is the Constant child holding the field name.
	FieldID ID
}

// Binary is the checked view of a relational node.
type Binary struct {
	Kind  Kind
	Left  ID
	Right ID
}

// AsLabel returns the alias name if id is a Label.
func (a *Arena) AsLabel(id ID) (string, bool) {
	if a.Kind(id) != KindLabel {
		return "", false
	}
	return a.get(id).name, true
}

// AsLabelAttribute returns the alias and field name if id is a LabelAttribute.
func (a *Arena) AsLabelAttribute(id ID) (LabelAttr, bool) {
	if a.Kind(id) != KindLabelAttribute {
		return LabelAttr{}, false
	}

	n := a.get(id)
	alias, ok := a.AsLabel(n.children[0])
	if !ok {
		return LabelAttr{}, false
	}

	value, ok := a.AsConstant(n.children[1])
	if !ok {
		return LabelAttr{}, false
	}

	field, ok := value.(string)
	if !ok {
		return LabelAttr{}, false
	}

	return LabelAttr{Alias: alias, Field: field, FieldID: n.children[1]}, true
}

// AsConstant returns the value if id is a Constant.
func (a *Arena) AsConstant(id ID) (Value, bool) {
	if a.Kind(id) != KindConstant {
		return nil, false
	}
	return a.get(id).value, true
}

// AsBinary returns the comparison view if id is relational.
func (a *Arena) AsBinary(id ID) (Binary, bool) {
	kind := a.Kind(id)
	if !kind.IsRelational() {
		return Binary{}, false
	}

	n := a.get(id)
	return Binary{Kind: kind, Left: n.children[0], Right: n.children[1]}, true
}

// AsMap returns the ordered items if id is a Map.
func (a *Arena) AsMap(id ID) ([]MapItem, bool) {
	if a.Kind(id) != KindMap {
		return nil, false
	}

	n := a.get(id)
	items := make([]MapItem, len(n.keys))
	for i, key := range n.keys {
		items[i] = MapItem{Key: key, Value: n.children[i]}
	}
	return items, true
}

// AsFunctionCall returns the function name and arguments if id is a FunctionCall.
func (a *Arena) AsFunctionCall(id ID) (string, []ID, bool) {
	if a.Kind(id) != KindFunctionCall {
		return "", nil, false
	}
	return a.get(id).name, a.Children(id), true
}

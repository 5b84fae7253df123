package schema

import "slices"

// Reserved property names understood by the storage layer.
const (
	PropTag  = "_tag"
	PropSrc  = "_src"
	PropDst  = "_dst"
	PropType = "_type"
	PropRank = "_rank"
)

// VertexProp requests properties of one tag from the storage layer.
type VertexProp struct {
	Tag   string
	Props []string
}

// EdgeProp requests properties of one edge type from the storage layer. Reverse selects the
// incoming direction.
type EdgeProp struct {
	Edge    string
	Reverse bool
	Props   []string
}

// TypeName returns the signed edge type name, "+edge" for outgoing and "-edge" for incoming.
func (ep EdgeProp) TypeName() string {
	if ep.Reverse {
		return "-" + ep.Edge
	}
	return "+" + ep.Edge
}

// AllVertexProps requests every tag of the space. With withProps the request carries every
// declared property of each tag, otherwise only the tag marker.
func AllVertexProps(r Reader, space string, withProps bool) ([]VertexProp, error) {
	tags, err := r.ListTags(space)
	if err != nil {
		return nil, err
	}

	requests := make([]VertexProp, 0, len(tags))
	for _, tag := range tags {
		request := VertexProp{Tag: tag, Props: []string{PropTag}}
		if withProps {
			defs, err := r.TagProps(space, tag)
			if err != nil {
				return nil, err
			}
			for _, def := range defs {
				request.Props = append(request.Props, def.Name)
			}
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// RequireProps verifies that every name in props is declared on the type, returning a
// PropertyNotFoundError for the first one that is not. Reserved names always pass.
func RequireProps(declared []PropDef, typeName string, props []string) error {
	for _, prop := range props {
		if isReserved(prop) {
			continue
		}
		if !slices.ContainsFunc(declared, func(def PropDef) bool { return def.Name == prop }) {
			return NewPropertyNotFoundErr(typeName, prop)
		}
	}
	return nil
}

func isReserved(prop string) bool {
	switch prop {
	case PropTag, PropSrc, PropDst, PropType, PropRank:
		return true
	default:
		return false
	}
}

package schema

// PropDef is one declared property of a tag or edge type.
type PropDef struct {
	Name string
	Type string
}

// SpaceInfo identifies a graph space.
type SpaceInfo struct {
	ID   uint32
	Name string
}

// Reader lists schema metadata. Every method returns a typed not-found error (SpaceNotFoundError,
// TagNotFoundError, EdgeNotFoundError) when the named object does not exist.
type Reader interface {
	// LookupSpace resolves a space by name.
	LookupSpace(space string) (SpaceInfo, error)

	// ListTags returns the names of the tags declared in the space, sorted by name.
	ListTags(space string) ([]string, error)

	// ListEdges returns the names of the edge types declared in the space, sorted by name.
	ListEdges(space string) ([]string, error)

	// TagProps returns the declared properties of a tag, in declaration order.
	TagProps(space, tag string) ([]PropDef, error)

	// EdgeProps returns the declared properties of an edge type, in declaration order.
	EdgeProps(space, edge string) ([]PropDef, error)
}

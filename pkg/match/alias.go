package match

import "strconv"

// AliasType is the declared kind of a pattern alias.
type AliasType uint8

const (
	AliasNode AliasType = iota
	AliasEdge
	AliasPath
)

func (at AliasType) String() string {
	switch at {
	case AliasNode:
		return "node"
	case AliasEdge:
		return "edge"
	case AliasPath:
		return "path"
	default:
		return "AliasType(" + strconv.Itoa(int(at)) + ")"
	}
}

// AliasTable maps every alias declared by a pattern to its kind. It is built by the validator
// and read-only here.
type AliasTable map[string]AliasType

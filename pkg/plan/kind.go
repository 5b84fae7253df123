package plan

import "strconv"

// Kind is the physical operator of a plan node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindStart
	KindValues
	KindProject
	KindDedup
	KindFilter
	KindGetVertices
	KindGetNeighbors
	KindInnerJoin
	KindLeftJoin
	KindUnion

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:      "Invalid",
	KindStart:        "Start",
	KindValues:       "Values",
	KindProject:      "Project",
	KindDedup:        "Dedup",
	KindFilter:       "Filter",
	KindGetVertices:  "GetVertices",
	KindGetNeighbors: "GetNeighbors",
	KindInnerJoin:    "InnerJoin",
	KindLeftJoin:     "LeftJoin",
	KindUnion:        "Union",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsJoin returns true for the two join operators.
func (k Kind) IsJoin() bool {
	return k == KindInnerJoin || k == KindLeftJoin
}

// Direction selects which edges GetNeighbors expands.
type Direction uint8

const (
	DirectionOut Direction = iota
	DirectionIn
	DirectionBoth
)

func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "OUT"
	case DirectionIn:
		return "IN"
	case DirectionBoth:
		return "BOTH"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

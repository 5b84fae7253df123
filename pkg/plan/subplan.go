package plan

// SubPlan is the plan fragment built so far: Root is the currently exposed terminal operator
// and Tail the first operator of the fragment.
type SubPlan struct {
	Root NodeID
	Tail NodeID
}

// IsEmpty returns true if no operator has been added to the fragment.
func (sp SubPlan) IsEmpty() bool {
	return sp.Root == Nil
}

// Extend returns the fragment with root as its new terminal operator.
func (sp SubPlan) Extend(root NodeID) SubPlan {
	if sp.Tail == Nil {
		return SubPlan{Root: root, Tail: root}
	}
	return SubPlan{Root: root, Tail: sp.Tail}
}

package expr

// Matcher decides whether Transform replaces a node.
type Matcher func(a *Arena, id ID) bool

// Rewriter produces the replacement of a matched node. It must allocate its result and may
// read, but never return, nodes of the input tree.
type Rewriter func(a *Arena, id ID) ID

// Transform returns a new tree in which every node selected by match, found in a pre-order
// walk, is replaced by rewrite's result. Nodes below a matched node are not visited; the
// rewriter owns them. Unmatched composite nodes are rebuilt over their transformed children
// and unmatched leaves are cloned, so the result shares no node with the input, which is left
// untouched.
func (a *Arena) Transform(root ID, match Matcher, rewrite Rewriter) ID {
	if root == Nil {
		return Nil
	}

	if match(a, root) {
		return rewrite(a, root)
	}

	n := a.get(root)
	if len(n.children) == 0 {
		return a.add(n)
	}

	children := make([]ID, len(n.children))
	for i, child := range n.children {
		children[i] = a.Transform(child, match, rewrite)
	}
	return a.rebuild(n, children)
}

// Walk visits the subtree rooted at id in pre-order. Returning false from visit skips the
// node's children.
func (a *Arena) Walk(id ID, visit func(id ID) bool) {
	if id == Nil {
		return
	}
	if !visit(id) {
		return
	}
	for _, child := range a.get(id).children {
		a.Walk(child, visit)
	}
}

// Any returns true if some node of the subtree satisfies pred.
func (a *Arena) Any(id ID, pred func(id ID) bool) bool {
	found := false
	a.Walk(id, func(current ID) bool {
		if found {
			return false
		}
		if pred(current) {
			found = true
			return false
		}
		return true
	})
	return found
}

// FlattenAnds returns the operands of nested conjunctions rooted at id, left to right. A
// node that is not a conjunction is returned as the single operand. The tree is not modified.
func (a *Arena) FlattenAnds(id ID) []ID {
	if a.Kind(id) != KindLogicalAnd {
		return []ID{id}
	}

	var operands []ID
	for _, child := range a.get(id).children {
		operands = append(operands, a.FlattenAnds(child)...)
	}
	return operands
}

// Equal reports whether two subtrees, possibly of different arenas, are structurally equal.
func Equal(a *Arena, x ID, b *Arena, y ID) bool {
	if x == Nil || y == Nil {
		return x == Nil && y == Nil
	}

	nx, ny := a.get(x), b.get(y)
	if nx.kind != ny.kind || nx.name != ny.name || nx.prop != ny.prop || nx.value != ny.value {
		return false
	}
	if len(nx.keys) != len(ny.keys) || len(nx.children) != len(ny.children) {
		return false
	}
	for i := range nx.keys {
		if nx.keys[i] != ny.keys[i] {
			return false
		}
	}
	for i := range nx.children {
		if !Equal(a, nx.children[i], b, ny.children[i]) {
			return false
		}
	}
	return true
}

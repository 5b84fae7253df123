// Package expr holds the expression trees the planner rewrites and embeds into plan nodes.
//
// Expressions live in an Arena owned by a single query's compile pass. A node is addressed by
// an ID handle; the zero handle Nil means "no expression". Nodes never change after they are
// allocated: rewriting always allocates a fresh subtree, so a rewritten tree shares no node
// with its input.
//
// Kinds form a closed set. Code that switches over Kind handles every member and reports an
// unknown kind as a bug.
package expr

// Package match resolves pattern aliases inside expressions and builds the plan fragments shared
// by the pattern matching planners: index filters scoped to one alias, the vertex fetch
// sub-plan, and the path helper expressions.
package match

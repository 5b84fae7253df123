// Package plan holds the physical plan graph produced by the compiler. Nodes live in an
// index-addressed arena owned by a single query; constructors wire dependencies and output
// columns at creation, so a node is never modified once another node depends on it.
package plan

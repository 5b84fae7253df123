// Package traverse compiles graph walks into plans: a start frontier expanded through one,
// exactly N, or between M and N steps of GetNeighbors, with trace joins accumulating the walked
// path, a single post-walk fetch of destination properties and the final projection of the
// yield clause.
package traverse

// Package schema is the metadata collaborator consulted while compiling a plan: it resolves
// graph spaces and lists the declared properties of vertex tags and edge types.
package schema

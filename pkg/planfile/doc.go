// Package planfile decodes YAML plan fixtures: a space schema plus one traversal or node fetch,
// compiled against an in-memory schema store.
package planfile

package planerrors

import (
	"errors"
	"maps"
)

// HasMetadata indicates that the error has metadata defined.
type HasMetadata interface {
	// DetailsMetadata returns the metadata for details for this error.
	DetailsMetadata() map[string]string
}

// DetailsOf collects the metadata of every error in the chain that defines it. Outer errors win
// on key conflicts.
func DetailsOf(err error) map[string]string {
	details := map[string]string{}
	var chain []HasMetadata
	for current := err; current != nil; current = errors.Unwrap(current) {
		if hm, ok := current.(HasMetadata); ok {
			chain = append(chain, hm)
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		maps.Copy(details, chain[i].DetailsMetadata())
	}
	return details
}

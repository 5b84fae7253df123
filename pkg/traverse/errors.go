package traverse

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// StepLimitError occurs when a traversal walks more steps than the builder allows.
type StepLimitError struct {
	error
	requested uint32
	limit     uint32
}

// RequestedSteps returns the upper bound of the rejected traversal.
func (err StepLimitError) RequestedSteps() uint32 {
	return err.requested
}

// StepLimit returns the configured limit.
func (err StepLimitError) StepLimit() uint32 {
	return err.limit
}

// MarshalZerologObject implements zerolog object marshalling.
func (err StepLimitError) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Uint32("requested", err.requested).Uint32("limit", err.limit)
}

// DetailsMetadata returns the metadata for details for this error.
func (err StepLimitError) DetailsMetadata() map[string]string {
	return map[string]string{
		"requested_steps": strconv.FormatUint(uint64(err.requested), 10),
		"step_limit":      strconv.FormatUint(uint64(err.limit), 10),
	}
}

// NewStepLimitErr constructs a new step limit error.
func NewStepLimitErr(requested, limit uint32) error {
	return StepLimitError{
		error:     fmt.Errorf("traversal of %d steps exceeds the limit of %d", requested, limit),
		requested: requested,
		limit:     limit,
	}
}

// DestPropertyInFilterError occurs when a traversal filter references a property of the
// destination vertex, which is only fetched after the walk.
type DestPropertyInFilterError struct {
	error
	expression string
}

// Expression returns the offending property reference.
func (err DestPropertyInFilterError) Expression() string {
	return err.expression
}

// MarshalZerologObject implements zerolog object marshalling.
func (err DestPropertyInFilterError) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Str("expression", err.expression)
}

// DetailsMetadata returns the metadata for details for this error.
func (err DestPropertyInFilterError) DetailsMetadata() map[string]string {
	return map[string]string{
		"expression": err.expression,
	}
}

// NewDestPropertyInFilterErr constructs a new destination property in filter error.
func NewDestPropertyInFilterErr(expression string) error {
	return DestPropertyInFilterError{
		error:      fmt.Errorf("destination property `%s` cannot be used in the traversal filter", expression),
		expression: expression,
	}
}

package planerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type metaErr struct {
	error
	details map[string]string
}

func (m metaErr) DetailsMetadata() map[string]string { return m.details }

func (m metaErr) Unwrap() error { return m.error }

func TestDetailsOf(t *testing.T) {
	t.Parallel()

	inner := metaErr{errors.New("inner"), map[string]string{"tag": "person", "space": "inner"}}
	outer := metaErr{fmt.Errorf("outer: %w", inner), map[string]string{"space": "nba"}}

	details := DetailsOf(fmt.Errorf("wrapped: %w", outer))
	require.Equal(t, map[string]string{"tag": "person", "space": "nba"}, details)
	require.Empty(t, DetailsOf(errors.New("plain")))
}

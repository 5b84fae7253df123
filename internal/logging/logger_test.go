package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestForQueryCarriesQueryFields(t *testing.T) {
	originalLogger := Logger
	t.Cleanup(func() {
		SetGlobalLogger(originalLogger)
	})

	var buf bytes.Buffer
	SetGlobalLogger(zerolog.New(&buf))

	logger := ForQuery("q-1", "nba")
	logger.Info().Msg("compiled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "q-1", line["query_id"])
	require.Equal(t, "nba", line["space"])
	require.Equal(t, "compiled", line["message"])
}

func TestDefaultLoggerIsNop(t *testing.T) {
	originalLogger := Logger
	t.Cleanup(func() {
		SetGlobalLogger(originalLogger)
	})

	SetGlobalLogger(zerolog.Nop())
	require.Equal(t, zerolog.Disabled, Logger.GetLevel())
	require.Same(t, &Logger, zerolog.DefaultContextLogger)
}

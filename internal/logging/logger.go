// Package logging holds the process-wide zerolog logger. It discards everything until
// SetGlobalLogger is called.
package logging

import (
	"github.com/rs/zerolog"
)

var Logger zerolog.Logger

func init() {
	SetGlobalLogger(zerolog.Nop())
}

func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger
}

func Trace() *zerolog.Event { return Logger.Trace() }

func Debug() *zerolog.Event { return Logger.Debug() }

func Error() *zerolog.Event { return Logger.Error() }

// ForQuery returns a child of the global logger scoped to a single compile pass.
func ForQuery(queryID string, space string) zerolog.Logger {
	return Logger.With().Str("query_id", queryID).Str("space", space).Logger()
}

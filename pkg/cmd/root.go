package cmd

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/cobrautil/v2/cobrazerolog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/authzed/graphplanner/internal/logging"
)

func RegisterRootFlags(cmd *cobra.Command) {
	cobrazerolog.New().RegisterFlags(cmd.PersistentFlags())
}

// DefaultPreRunE sets up zerolog flag handling for a command.
func DefaultPreRunE() cobrautil.CobraRunFunc {
	return cobrautil.CommandStack(
		cobrazerolog.New(
			cobrazerolog.WithTarget(func(logger zerolog.Logger) {
				logging.SetGlobalLogger(logger)
			}),
		).RunE(),
	)
}

func NewRootCommand(programName string) *cobra.Command {
	return &cobra.Command{
		Use:           programName,
		Short:         "A graph query plan compiler",
		Long:          "Compiles graph traversals and pattern fetches into physical execution plans",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
}

package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/authzed/graphplanner/internal/logging"
	"github.com/authzed/graphplanner/pkg/cache"
	"github.com/authzed/graphplanner/pkg/cmd"
	"github.com/authzed/graphplanner/pkg/traverse"
)

func main() {
	// Overwritten by the logging flags of the command being run.
	logging.SetGlobalLogger(zerolog.New(os.Stderr).Level(zerolog.InfoLevel))

	rootCmd := cmd.NewRootCommand("graphplan")
	cmd.RegisterRootFlags(rootCmd)

	config := &cmd.ExplainConfig{
		Traverse: traverse.DefaultConfig(),
		Cache:    *cache.DefaultConfig(),
	}
	explainCmd := cmd.NewExplainCommand(rootCmd.Use, config)
	cmd.RegisterExplainFlags(explainCmd.Flags(), config)
	rootCmd.AddCommand(explainCmd)

	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("terminated with errors")
		os.Exit(1)
	}
}

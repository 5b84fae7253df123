package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/authzed/graphplanner/internal/logging"
	"github.com/authzed/graphplanner/pkg/cache"
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/planfile"
	"github.com/authzed/graphplanner/pkg/qctx"
	"github.com/authzed/graphplanner/pkg/schema"
	"github.com/authzed/graphplanner/pkg/traverse"
)

// ExplainConfig configures the explain command.
type ExplainConfig struct {
	Traverse traverse.Config
	Cache    cache.Config
	NoColor  bool
}

func RegisterExplainFlags(flags *pflag.FlagSet, config *ExplainConfig) {
	flags.Uint32Var(&config.Traverse.MaxSteps, "max-steps", config.Traverse.MaxSteps, "largest step count a traversal may request")
	flags.Int64Var(&config.Cache.MaxCost, "schema-cache-max-cost", config.Cache.MaxCost, "capacity of the schema properties cache, in properties")
	flags.DurationVar(&config.Cache.DefaultTTL, "schema-cache-ttl", config.Cache.DefaultTTL, "lifetime of schema properties cache entries")
	flags.BoolVar(&config.NoColor, "no-color", false, "disable colored output")
}

func NewExplainCommand(programName string, config *ExplainConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "explain FILE",
		Short:   "compile a plan file and print the resulting plan",
		Example: fmt.Sprintf("  %s explain traversal.yaml\n  %s explain --max-steps 8 traversal.yaml", programName, programName),
		Args:    cobra.ExactArgs(1),
		PreRunE: DefaultPreRunE(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.NoColor {
				color.NoColor = true
			}
			return Explain(cmd.OutOrStdout(), args[0], config)
		},
	}
}

// Explain compiles the plan file at path and writes its plan to out.
func Explain(out io.Writer, path string, config *ExplainConfig) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open plan file: %w", err)
	}
	defer file.Close()

	f, err := planfile.Parse(file)
	if err != nil {
		return err
	}

	store, err := schema.NewMemStoreFromDefinitions(f.Definition())
	if err != nil {
		return fmt.Errorf("invalid plan file schema: %w", err)
	}

	props, err := cache.NewTheineCacheWithMetrics[cache.StringKey, []schema.PropDef]("schema_props", &config.Cache)
	if err != nil {
		return fmt.Errorf("unable to create schema cache: %w", err)
	}
	defer props.Close()
	logging.Debug().Object("cache", props).Msg("created schema properties cache")

	qc := qctx.New(f.Space, schema.NewCachingReader(store, props))
	compiled, err := planfile.Compile(qc, f, traverse.WithMaxSteps(config.Traverse.MaxSteps))
	if err != nil {
		return fmt.Errorf("unable to compile %s: %w", path, err)
	}

	g := qc.Plan()
	heading := color.New(color.Bold)
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("query:"), qc.ID())
	fmt.Fprintf(out, "%s %016x\n", heading.Sprint("fingerprint:"), g.Fingerprint(compiled.Plan.Root))
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("columns:"), strings.Join(g.ColNames(compiled.Plan.Root), ", "))
	if compiled.IndexFilter != expr.Nil {
		fmt.Fprintf(out, "%s %s\n", heading.Sprint("index filter:"), color.CyanString(qc.Exprs().String(compiled.IndexFilter)))
	}
	fmt.Fprint(out, g.Explain(compiled.Plan.Root).String())

	logging.Debug().
		Str("query_id", qc.ID().String()).
		Int("nodes", len(g.Reachable(compiled.Plan.Root))).
		Uint64("cache_hits", props.GetMetrics().Hits()).
		Uint64("cache_misses", props.GetMetrics().Misses()).
		Msg("explained plan file")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/pkg/buildinfo"
	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is used for directories and display.
const appName = "tmdlayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	cfgFile string
	verbose bool
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// RootCommand returns the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "tmdlayout arranges Power BI model diagrams",
		Long: `tmdlayout reads a Power BI semantic model in TMDL format, classifies its
tables (facts, dimensions by distance, calendars, parameters, ...) and
computes a readable diagram layout: facts in the center, dimension chains
fanning out to the left and right, utility tables at the edge.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			cfg, err := LoadConfig(c.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.File != "" {
				c.Logger.Debug("loaded config", "file", cfg.File)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withConfig(withLogger(ctx, c.Logger), cfg))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(stdout)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: "+defaultConfigFile()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.categorizeCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.profileCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command.
func (c *CLI) Execute(ctx context.Context) error {
	return c.RootCommand().ExecuteContext(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner returns a pipeline runner using the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := cache.Open(ctx, cfg.cacheConfig(noCache))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(cc, nil, loggerFromContext(ctx)), nil
}

// addLayoutFlags registers the flags shared by commands that compute a
// layout. Their values are read through LoadConfig.
func addLayoutFlags(cmd *cobra.Command) {
	d := DefaultConfig()
	cmd.Flags().Int("width", d.Canvas.Width, "canvas width")
	cmd.Flags().Int("height", d.Canvas.Height, "canvas height")
	cmd.Flags().String("heuristics", "", "heuristics profile (TOML)")
	cmd.Flags().String("cache-backend", d.Cache.Backend, "cache backend: file, redis, none")
	cmd.Flags().String("cache-dir", "", "cache directory for the file backend")
	cmd.Flags().String("redis-addr", d.Cache.RedisAddr, "redis address for the redis backend")
}

// modelPath returns the first argument or the working directory.
func modelPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

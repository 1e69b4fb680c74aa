package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/internal/server"
	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

// apiKeyScope separates API layouts from CLI layouts in a shared cache.
const apiKeyScope = "api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Endpoints:
  POST /v1/layout   compute a layout from tables and relationships (JSON)
  GET  /v1/profile  the active heuristics profile
  GET  /healthz     liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			opts, err := cfg.pipelineOptions("")
			if err != nil {
				return err
			}
			cc, err := cache.Open(ctx, cfg.cacheConfig(noCache))
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyScope), c.Logger)
			defer runner.Close()

			srv, err := server.New(server.Config{
				Addr:    cfg.Serve.Addr,
				Runner:  runner,
				Options: opts,
				Logger:  c.Logger,
			})
			if err != nil {
				return err
			}
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", DefaultConfig().Serve.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd)

	return cmd
}

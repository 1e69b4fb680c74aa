package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [path]",
		Short: "Compute diagram positions for a semantic model",
		Long: `Compute diagram positions for a semantic model.

The path may be a Power BI project folder, a *.SemanticModel folder or its
definition folder; it defaults to the working directory. The result is a
layout document with every table's position, the categorization and a
quality report.

Results are cached; editing any TMDL file or the heuristics profile
invalidates the cached layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), modelPath(args), output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <model>.layout.<format>)")
	cmd.Flags().String("format", DefaultConfig().Output.Format, "output format: json, yaml")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite the cached layout")
	addLayoutFlags(cmd)

	return cmd
}

// runLayout computes the layout of the model at path and writes it out.
func (c *CLI) runLayout(ctx context.Context, path, output string, noCache, refresh bool) error {
	cfg := configFromContext(ctx)
	opts, err := cfg.pipelineOptions(path)
	if err != nil {
		return err
	}
	opts.Refresh = refresh

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	format := opts.Formats[0]
	if output == "-" {
		_, err := stdout.Write(res.Artifacts[format])
		return err
	}
	if output == "" {
		output = res.Model.Project.Name + ".layout." + string(format)
	}
	if err := layout.Export(output, res.Document); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	doc := res.Document
	printSuccess("Layout complete")
	printFile(output)
	printStats(doc.Stats.Tables, len(doc.Positions), doc.Quality.Score, doc.Quality.Rating, res.CacheInfo.LayoutHit)
	printWarnings(res)
	printNewline()
	printNextStep("Details", appName+" explain "+path)

	return nil
}

// printWarnings prints the engine warnings of a run.
func printWarnings(res *pipeline.Result) {
	for _, w := range res.Document.Warnings {
		printWarning("%s", w.String())
	}
	if res.Document.Stats.ExceedsCanvas {
		printWarning("layout exceeds the %dx%d canvas", res.Document.Stats.CanvasWidth, res.Document.Stats.CanvasHeight)
	}
}

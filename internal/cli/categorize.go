package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

// categorizeCommand creates the categorize command.
func (c *CLI) categorizeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categorize [path]",
		Short: "Show how each table of a semantic model is classified",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.computeLayout(cmd.Context(), modelPath(args))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Document.Categorization)
			}
			fmt.Fprintln(stdout, StyleTitle.Render(res.Model.Project.Name))
			fmt.Fprintln(stdout, renderCategorization(res.Document.Categorization))
			printCategoryCounts(res.Document.Categorization)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the categorization as JSON")
	addLayoutFlags(cmd)

	return cmd
}

// computeLayout runs the pipeline for path with the configured cache.
func (c *CLI) computeLayout(ctx context.Context, path string) (*pipeline.Result, error) {
	cfg := configFromContext(ctx)
	opts, err := cfg.pipelineOptions(path)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	return runner.Execute(ctx, opts)
}

// renderCategorization renders one row per table.
func renderCategorization(cat *model.Categorization) string {
	rows := make([][]string, 0, len(cat.Tables))
	for _, r := range cat.Tables {
		level := ""
		if r.Level > 0 {
			level = strconv.Itoa(r.Level)
		}
		ext := ""
		if r.Extension != nil {
			ext = r.Extension.Base
		}
		rows = append(rows, []string{r.Name, r.Category.Label(), level, strconv.Itoa(r.Connections), ext})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Table", "Category", "Level", "Links", "Extends").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(cat.Tables) {
				return lipgloss.NewStyle()
			}
			if col == 1 {
				return categoryStyle(cat.Tables[row].Category)
			}
			if col >= 2 {
				return StyleDim
			}
			return StyleValue
		})
	return t.Render()
}

// printCategoryCounts prints the non-empty bucket sizes.
func printCategoryCounts(cat *model.Categorization) {
	counts := cat.Counts()
	for _, c := range append(model.PlacementCategories, model.CategoryAutoDate) {
		if n := counts[c]; n > 0 {
			printKeyValue(c.Label(), strconv.Itoa(n))
		}
	}
}

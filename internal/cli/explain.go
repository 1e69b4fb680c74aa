package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// explainCommand creates the explain command.
func (c *CLI) explainCommand() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "explain [path]",
		Short: "Explain the categorization and layout decisions",
		Long: `Explain the categorization and layout decisions for a semantic model.

Prints the fact scores behind every fact/dimension decision, the detected
1:1 extension tables, the dimension stacks per side, the chain families,
all warnings and the layout quality report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.computeLayout(cmd.Context(), modelPath(args))
			if err != nil {
				return err
			}
			return renderExplain(stdout, res.Document, markdown)
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "render tables as Markdown")
	addLayoutFlags(cmd)

	return cmd
}

// renderExplain writes every report section of doc to w.
func renderExplain(w io.Writer, doc *layout.Document, markdown bool) error {
	render := func(title string, t table.Writer) {
		t.SetTitle(title)
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		if markdown {
			fmt.Fprintf(w, "\n### %s\n\n", title)
			t.SetTitle("")
			t.RenderMarkdown()
			return
		}
		t.Render()
	}

	scores := table.NewWriter()
	scores.AppendHeader(table.Row{"Table", "Connection", "Naming", "Fact", "Dimension", "Fact?", "Rule"})
	for _, s := range doc.Scores {
		scores.AppendRow(table.Row{s.Table, s.Connection, s.NameFact, s.Fact, s.Dimension, yesNo(s.IsFact), s.Rule})
	}
	render("Fact scores", scores)

	if exts := doc.Categorization.Extensions; len(exts) > 0 {
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Extension", "Base", "Strength", "Confidence", "Reasons"})
		names := make([]string, 0, len(exts))
		for name := range exts {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			e := exts[name]
			t.AppendRow(table.Row{name, e.Base, e.Strength, fmt.Sprintf("%.2f", e.Confidence), strings.Join(e.Reasons, "; ")})
		}
		render("Extensions", t)
	}

	stacks := table.NewWriter()
	stacks.AppendHeader(table.Row{"Level", "Left", "Right"})
	for i := range model.MaxLevel {
		left, right := doc.Stacks.Left[i], doc.Stacks.Right[i]
		if len(left) == 0 && len(right) == 0 {
			continue
		}
		stacks.AppendRow(table.Row{model.DimensionCategory(i + 1).Label(), strings.Join(left, "\n"), strings.Join(right, "\n")})
	}
	render("Dimension stacks", stacks)

	if len(doc.Families) > 0 {
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Family", "Chain", "Members"})
		for _, f := range doc.Families {
			t.AppendRow(table.Row{f.Name, strings.Join(f.Chain, " → "), len(f.Members)})
		}
		render("Chain families", t)
	}

	if len(doc.Warnings) > 0 {
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Code", "Table", "Message"})
		for _, warn := range doc.Warnings {
			t.AppendRow(table.Row{warn.Code, warn.Table, warn.Message})
		}
		render("Warnings", t)
	}

	if q := doc.Quality; q != nil {
		t := table.NewWriter()
		t.AppendRows([]table.Row{
			{"Score", fmt.Sprintf("%.1f (%s)", q.Score, q.Rating)},
			{"Positioned", fmt.Sprintf("%d / %d", q.PositionedTables, q.TotalTables)},
			{"Overlapping", q.OverlappingTables},
			{"Outside canvas", q.OutsideCanvas},
			{"Average spacing", fmt.Sprintf("%.1f", q.AverageSpacing)},
			{"Efficiency", fmt.Sprintf("%.1f%%", q.Efficiency)},
		})
		for _, rec := range q.Recommendations {
			t.AppendRow(table.Row{"Recommendation", rec})
		}
		render("Quality", t)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Browse the categorization of a semantic model interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.computeLayout(cmd.Context(), modelPath(args))
			if err != nil {
				return err
			}
			m := NewCategoryBrowserModel(res.Document)
			if len(m.Groups) == 0 {
				printInfo("No tables to inspect")
				return nil
			}
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(stdout))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			return nil
		},
	}

	addLayoutFlags(cmd)

	return cmd
}

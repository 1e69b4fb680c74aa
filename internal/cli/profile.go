package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/pkg/heuristics"
)

// profileCommand creates the profile command.
func (c *CLI) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the heuristics profile",
		Long: `Print the heuristics profile as TOML.

Without --heuristics the built-in profile is printed; redirect it to a file
to start a custom profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			p := heuristics.Default()
			if cfg.Heuristics != "" {
				var err error
				if p, err = heuristics.Load(cfg.Heuristics); err != nil {
					return err
				}
			}
			return p.Encode(stdout)
		},
	}

	cmd.Flags().String("heuristics", "", "heuristics profile (TOML)")
	cmd.AddCommand(c.profileValidateCommand())

	return cmd
}

// profileValidateCommand creates the "profile validate" subcommand.
func (c *CLI) profileValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a heuristics profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := heuristics.Load(args[0])
			if err != nil {
				printError("%s", args[0])
				return err
			}
			printSuccess("Profile is valid")
			printKeyValue("Name", p.Name)
			printFile(args[0])
			return nil
		},
	}
}

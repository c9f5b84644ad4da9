package cli

import (
	"github.com/spf13/cobra"
)

// validateCommand creates the validate command, which loads a tower config
// and reports whether it can be used.
func (c *CLI) validateCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a tower config without processing G-code",
		Long: `Check a tower config without processing G-code.

Every problem in the document is reported at once, each with the path of the
offending field. Expressions are compiled and do templates parsed, so a config
that passes will not fail on syntax while a file is being processed.`,
		Example: `  modtower validate -c temp-tower.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMatcher(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			cfg := m.Config()
			printSuccess(c.Stdout, "%s is valid", configFile)
			printDetail(c.Stdout, "%d everyLayer rule(s), %d atLayer command(s)", len(cfg.EveryLayer), len(cfg.AtLayer))
			return nil
		},
	}

	addConfigFlag(cmd, &configFile)
	return cmd
}

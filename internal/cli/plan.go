package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// planCommand creates the plan command, which prints what a tower config
// would inject into a file with a given number of layers.
func (c *CLI) planCommand() *cobra.Command {
	var (
		configFile string
		layers     int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the commands a tower config injects for a layer count",
		Long: `Show the commands a tower config injects for a layer count.

The plan lists the atLayer commands and, for every everyLayer rule, each
level from the top of the tower down with its layer, value and command. It is
the same summary the root command prints with --verbose.`,
		Example: `  modtower plan -c temp-tower.yaml --layers 250`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if layers <= 0 {
				return fmt.Errorf("--layers must be greater than 0, got %d", layers)
			}
			m, err := c.loadMatcher(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			return printSummary(c.Stdout, m, layers)
		},
	}

	addConfigFlag(cmd, &configFile)
	cmd.Flags().IntVarP(&layers, "layers", "n", 0, "total layer count of the sliced file")
	_ = cmd.MarkFlagRequired("layers")

	return cmd
}

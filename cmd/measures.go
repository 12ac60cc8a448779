package cmd

import (
	"github.com/huangsam/netseries/core"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/spf13/cobra"
)

// measuresCmd displays the named measure catalog.
var measuresCmd = &cobra.Command{
	Use:   "measures",
	Short: "Display the named measures and pairwise strategies.",
	Long: `Show every measure selectable with --measure, its level and whether it
supports permutation and convergence diagnostics.

No events are read - this is purely informational.

Examples:
  netseries measures
  netseries measures --output json`,
	Args:    cobra.NoArgs,
	PreRunE: outputSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMeasures(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display measures", err)
		}
	},
}

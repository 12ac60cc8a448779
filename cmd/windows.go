package cmd

import (
	"github.com/huangsam/netseries/core"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/spf13/cobra"
)

// windowsCmd previews the window schedule without building graphs.
var windowsCmd = &cobra.Command{
	Use:   "windows <events-path>",
	Short: "List the time windows an event log would be split into.",
	Long: `Schedule windows over the observed range of an event log and count the
events falling into each one. No graph is built.

Use this to pick a window size and shift before a longer extract run.

Examples:
  # Preview weekly windows
  netseries windows events.csv --window-size "7 days"

  # Overlapping windows starting at a fixed date
  netseries windows events.csv -s "30 days" --window-shift "7 days" --start 2024-01-01`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withSource(func(src contract.EventSource) error {
			return core.ExecuteWindows(rootCtx, cfg, src)
		})
		if err != nil {
			contract.LogFatal("Cannot list windows", err)
		}
	},
}

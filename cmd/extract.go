package cmd

import (
	"github.com/huangsam/netseries/core"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/spf13/cobra"
)

// extractCmd measures every window of an event log.
var extractCmd = &cobra.Command{
	Use:   "extract <events-path>",
	Short: "Measure each windowed graph snapshot of an event log.",
	Long: `Aggregate timestamped (a, b, weight) events into one weighted graph per
time window and apply a named measure to every snapshot.

Direct measures look at one snapshot at a time. Lagged measures compare each
snapshot with the one --lag windows earlier, or with the first window when
--first-net-only is set.

Graph-level measures can be checked against a null model:
- --permutations shuffles event endpoints inside each window
  and reports a confidence interval for the measure
- --convergence subsamples each window and reports the slope
  of the measure against the subsample size, with sizes
  from max(N - sample-floor, 1) up to the N events of the window

Examples:
  # Weekly edge counts from a CSV log
  netseries extract events.csv --window-size "7 days"

  # Daily overlapping windows, density with 500 permutations
  netseries extract events.csv -s "7 days" --window-shift "1 day" -m density -p 500

  # Jaccard similarity between consecutive windows
  netseries extract events.parquet -s "30 days" -m jaccard

  # Read from MySQL and export to parquet
  netseries extract --source mysql --db-connect "user:pass@tcp(localhost:3306)/net" \
    --table events -s "1 day" --output parquet --output-file series.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withSource(func(src contract.EventSource) error {
			return core.ExecuteExtract(rootCtx, cfg, src)
		})
		if err != nil {
			contract.LogFatal("Cannot extract series", err)
		}
	},
}

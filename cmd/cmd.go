// Package cmd defines the command-line interface for netseries.
package cmd

import (
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(measuresCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("source", "", "Event source: csv or parquet or sqlite or mysql or postgresql (default: from file extension)")
	rootCmd.PersistentFlags().String("table", "", "Table holding a, b, weight, ts columns for database sources")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().StringP("window-size", "s", "", "Window length (e.g., '7 days', '12h')")
	rootCmd.PersistentFlags().String("window-shift", "", "Distance between window starts (default: window size)")
	rootCmd.PersistentFlags().String("resolution", contract.DefaultResolution, "Timestamp granularity; '0' for exact timestamps")
	rootCmd.PersistentFlags().String("start", "", "First window start in ISO8601 (default: first event)")
	rootCmd.PersistentFlags().Bool("directed", false, "Treat events as directed from a to b")
	rootCmd.PersistentFlags().Bool("trim", false, "Drop nodes not observed across the whole window")
	rootCmd.PersistentFlags().Bool("ratio-index", false, "Normalize edge weights with the ratio index")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent snapshot builders")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("progress", false, "Report stage progress on stderr")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of extractCmd to Viper
	extractCmd.Flags().StringP("measure", "m", contract.DefaultMeasure, "Named measure (see 'netseries measures')")
	extractCmd.Flags().String("pairwise", contract.DefaultPairwise, "Pairwise strategy for the pair measure")
	extractCmd.Flags().Bool("lagged", false, "Compare each window with an earlier one")
	extractCmd.Flags().Int("lag", contract.DefaultLag, "Number of windows between compared snapshots")
	extractCmd.Flags().Bool("first-net-only", false, "Compare every window against the first one")
	extractCmd.Flags().IntP("permutations", "p", 0, "Null-model permutations per window (0 disables)")
	extractCmd.Flags().Float64("confidence", contract.DefaultConfidence, "Confidence level of the null interval")
	extractCmd.Flags().Bool("convergence", false, "Compute the subsampling convergence slope")
	extractCmd.Flags().Int("sample-floor", contract.DefaultSampleFloor, "Number of subsample sizes below the window event count N; sizes run from max(N-floor, 1) to N")
	extractCmd.Flags().Int("max-swap-retries", contract.DefaultMaxSwapRetries, "Attempts per swap before a permutation is given up")
	extractCmd.Flags().Uint64("seed", 0, "Random seed for permutations and subsampling")
	if err := viper.BindPFlags(extractCmd.Flags()); err != nil {
		contract.LogFatal("Error binding extract flags", err)
	}
}

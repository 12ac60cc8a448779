// Package main provides a performance benchmarking tool for the netseries CLI.
// It generates synthetic event logs of increasing size, runs extract commands
// against them with different worker counts, treats the first successful run
// as cold and averages the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - netseries binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the generated event logs are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/netseries/internal/parquet"
	"github.com/huangsam/netseries/schema"
)

// BenchmarkResult holds the timing of one scenario on one log.
type BenchmarkResult struct {
	Dataset  string
	Scenario string
	Workers  int
	ColdTime string
	WarmTime string
}

// Dataset describes one synthetic event log.
type Dataset struct {
	Name   string
	Nodes  int
	Events int
	Days   int
}

// Scenario is one extract invocation.
type Scenario struct {
	Name string
	Args string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Runs      int
	Workers   []int
	Datasets  []Dataset
	Scenarios []Scenario
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    4,
		Workers: []int{1, 4, 8},
		Datasets: []Dataset{
			{Name: "small", Nodes: 50, Events: 5_000, Days: 90},
			{Name: "medium", Nodes: 500, Events: 100_000, Days: 365},
			{Name: "large", Nodes: 5_000, Events: 1_000_000, Days: 730},
		},
		Scenarios: []Scenario{
			{Name: "edges", Args: `--window-size "7 days" -m edges`},
			{Name: "sliding-density", Args: `--window-size "30 days" --window-shift "1 day" -m density`},
			{Name: "jaccard", Args: `--window-size "7 days" -m jaccard`},
			{Name: "permutations", Args: `--window-size "30 days" -m density -p 100 --seed 1`},
			{Name: "convergence", Args: `--window-size "30 days" -m mean-degree --convergence --seed 1`},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	paths, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, paths)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the netseries binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("netseries"); err != nil {
		return fmt.Errorf("netseries binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDatasets writes each synthetic log as parquet and returns the paths by name
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	paths := make(map[string]string, len(config.Datasets))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, ds := range config.Datasets {
		path := filepath.Join(config.WorkDir, ds.Name+".parquet")
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Reusing %s\n", path)
			paths[ds.Name] = path
			continue
		}

		fmt.Printf("Generating %s (%d events over %d nodes)\n", ds.Name, ds.Events, ds.Nodes)
		if err := parquet.WriteEventsParquet(syntheticEvents(ds, start), path); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		paths[ds.Name] = path
	}
	return paths, nil
}

// syntheticEvents draws events with a skewed node popularity so windows have hubs
func syntheticEvents(ds Dataset, start time.Time) []schema.Event {
	rng := rand.New(rand.NewPCG(uint64(ds.Nodes), uint64(ds.Events)))
	span := time.Duration(ds.Days) * 24 * time.Hour
	pick := func() int {
		// Squaring a uniform draw favors low indices
		u := rng.Float64()
		return int(u * u * float64(ds.Nodes))
	}

	events := make([]schema.Event, 0, ds.Events)
	for len(events) < ds.Events {
		a, b := pick(), pick()
		if a == b {
			continue
		}
		events = append(events, schema.Event{
			A:      fmt.Sprintf("n%05d", a),
			B:      fmt.Sprintf("n%05d", b),
			Weight: float64(1 + rng.IntN(5)),
			Time:   start.Add(time.Duration(rng.Int64N(int64(span)))),
		})
	}
	return events
}

// runBenchmarks executes every scenario against every dataset and worker count
func runBenchmarks(config BenchmarkConfig, paths map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %d scenarios, %v timeout, %d runs\n",
		len(config.Datasets), len(config.Scenarios), config.Timeout, config.Runs)

	for _, ds := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", ds.Name)
		for _, sc := range config.Scenarios {
			for _, workers := range config.Workers {
				results = append(results, runBenchmarkSuite(config, ds.Name, paths[ds.Name], sc, workers))
			}
		}
	}

	return results
}

// runBenchmarkSuite times one scenario and summarizes cold and warm runs
func runBenchmarkSuite(config BenchmarkConfig, dataset, path string, sc Scenario, workers int) BenchmarkResult {
	fmt.Printf("  %s with %d workers\n", sc.Name, workers)

	args := append([]string{"extract", path, "--output", "csv", "--workers", fmt.Sprint(workers)}, parseArgs(sc.Args)...)
	coldTime, warmTimes := runBenchmark(config, args)

	coldStr := "TIMEOUT"
	if coldTime > 0 {
		coldStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmStr := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmStr = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldStr, warmStr)

	return BenchmarkResult{
		Dataset:  dataset,
		Scenario: sc.Name,
		Workers:  workers,
		ColdTime: coldStr,
		WarmTime: warmStr,
	}
}

// runBenchmark executes a netseries command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("netseries", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks that the csv output has a header and at least one window
func isSuccess(output []byte) bool {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	return len(lines) >= 2 && strings.Contains(lines[0], "windowStart")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/netseries_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "scenario", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Scenario, fmt.Sprint(result.Workers), result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by scenario
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, sc := range config.Scenarios {
		fmt.Printf("%s:\n", sc.Name)
		for _, result := range results {
			if result.Scenario == sc.Name {
				fmt.Printf("  %-8s %2d workers: Cold: %s, Warm: %s\n", result.Dataset, result.Workers, result.ColdTime, result.WarmTime)
			}
		}
	}
}

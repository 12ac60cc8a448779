package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/internal/parquet"
	"github.com/huangsam/netseries/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrParquetNeedsFile is returned when parquet output has nowhere to go.
var ErrParquetNeedsFile = errors.New("outwriter: parquet output requires an output file")

// WriteResults outputs the result table, dispatching based on the output format configured.
func WriteResults(table *schema.ResultTable, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, table)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsCSV(w, table, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return ErrParquetNeedsFile
		}
		if err := parquet.WriteResultsParquet(parquet.ConvertResultTable(table), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsTable(w, table, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeResultsTable generates and writes the human-readable table.
func writeResultsTable(writer io.Writer, result *schema.ResultTable, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)
	keys := result.MeasureKeys()

	// 1. Define Headers
	headers := []string{"Window", "Start", "End", "Events"}
	if len(keys) == 0 {
		headers = append(headers, "Measure")
	} else {
		width := GetMaxTableKeyWidth(cfg, len(keys), result.HasCI, result.HasConvergence)
		for _, k := range keys {
			headers = append(headers, contract.TruncateLabel(k, width))
		}
	}
	if result.HasCI {
		headers = append(headers, "CI.low", "CI.high", "Label")
	}
	if result.HasConvergence {
		headers = append(headers, "Convergence")
	}
	table.Header(headers)

	// 2. Right-align numbers
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, r := range result.Rows {
		row := []string{
			strconv.Itoa(i),           // Window
			formatTime(r.WindowStart), // Start
			formatTime(r.WindowEnd),   // End
			fmt.Sprintf(intFmt, r.EventCount),
		}
		for _, v := range r.MeasureCells(keys) {
			row = append(row, fmtFloat(v))
		}
		if result.HasCI {
			label := schema.GetCILabel(r)
			if cfg.UseColors {
				label = contract.GetColorLabel(r)
			}
			row = append(row, fmtFloat(r.CILow), fmtFloat(r.CIHigh), label)
		}
		if result.HasConvergence {
			row = append(row, fmtFloat(r.Convergence))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	totalEvents := 0
	for _, r := range result.Rows {
		totalEvents += r.EventCount
	}
	if _, err := fmt.Fprintf(writer, "Measured %s over %d windows (%d windowed events)\n", cfg.Measure, len(result.Rows), totalEvents); err != nil {
		return err
	}
	if result.HasCI {
		if _, err := fmt.Fprintf(writer, "Null intervals from %d permutations at %.0f%% confidence\n", cfg.Permutations, result.Level*100); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Run completed in %v with %d workers. Source: %s\n", duration, cfg.Workers, cfg.Source); err != nil {
		return err
	}
	return nil
}

// writeResultsCSV writes the result table in CSV format, one column per
// measure key followed by the optional and metadata columns.
func writeResultsCSV(w io.Writer, result *schema.ResultTable, fmtFloat func(float64) string, intFmt string) error {
	keys := result.MeasureKeys()
	return writeCSVWithHeader(w, result.Columns(), func(csvWriter *csv.Writer) error {
		for _, r := range result.Rows {
			var rec []string
			for _, v := range r.MeasureCells(keys) {
				rec = append(rec, fmtFloat(v))
			}
			if result.HasCI {
				rec = append(rec, fmtFloat(r.CILow), fmtFloat(r.CIHigh))
			}
			rec = append(rec,
				fmt.Sprintf(intFmt, r.EventCount),
				formatTime(r.WindowStart),
				formatTime(r.WindowEnd),
			)
			if result.HasConvergence {
				rec = append(rec, fmtFloat(r.Convergence))
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

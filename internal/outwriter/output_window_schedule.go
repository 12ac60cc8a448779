package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteWindows outputs the window schedule, dispatching based on the output format configured.
func WriteWindows(windows []schema.WindowSummary, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, windows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"index", "start", "end", "event_count"}, func(csvWriter *csv.Writer) error {
				for _, s := range windows {
					rec := []string{strconv.Itoa(s.Index), formatTime(s.Start), formatTime(s.End), fmt.Sprintf(intFmt, s.EventCount)}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is only available for extract results")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWindowsTable(w, windows, intFmt)
		}, "Wrote table")
	}
}

// writeWindowsTable renders the schedule as a table.
func writeWindowsTable(writer io.Writer, windows []schema.WindowSummary, intFmt string) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Window", "Start", "End", "Events"})

	var data [][]string
	empty := 0
	for _, s := range windows {
		if s.EventCount == 0 {
			empty++
		}
		data = append(data, []string{strconv.Itoa(s.Index), formatTime(s.Start), formatTime(s.End), fmt.Sprintf(intFmt, s.EventCount)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Scheduled %d windows (%d empty)\n", len(windows), empty)
	return err
}

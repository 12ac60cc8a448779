// Package parquet provides data structures and functions for reading event logs
// from and writing result tables to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/huangsam/netseries/schema"
	"github.com/parquet-go/parquet-go"
)

// EventRow represents a single relational event.
type EventRow struct {
	// A is the first endpoint (the source when directed)
	A string `parquet:"a,snappy"`

	// B is the second endpoint
	B string `parquet:"b,snappy"`

	// Weight is the strictly positive event weight
	Weight float64 `parquet:"weight,snappy"`

	// Time is when the event happened (stored as TIMESTAMP with nanosecond precision)
	Time time.Time `parquet:"time,snappy"`
}

// ResultRow is one measure cell of one window in long format. Scalar
// measures have an empty Key; node and pair measures emit one row per key.
type ResultRow struct {
	// WindowIndex is the zero-based window position
	WindowIndex int32 `parquet:"window_index,snappy"`

	// WindowStart and WindowEnd bound the half-open window
	WindowStart time.Time `parquet:"window_start,snappy"`
	WindowEnd   time.Time `parquet:"window_end,snappy"`

	// Key is the node or pair key of a keyed measure
	Key string `parquet:"key,snappy"`

	// Measure is the value (nullable when the window is degenerate)
	Measure *float64 `parquet:"measure,optional,snappy"`

	// CILow and CIHigh are the null-model interval (nullable)
	CILow  *float64 `parquet:"ci_low,optional,snappy"`
	CIHigh *float64 `parquet:"ci_high,optional,snappy"`

	// EventCount is the number of events in the window
	EventCount int64 `parquet:"event_count,snappy"`

	// Convergence is the subsampling slope (nullable)
	Convergence *float64 `parquet:"convergence,optional,snappy"`
}

// ReadEventsParquet reads every event row of a Parquet file.
func ReadEventsParquet(inputPath string) ([]schema.Event, error) {
	rows, err := parquet.ReadFile[EventRow](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %q: %w", inputPath, err)
	}
	return ConvertEventRows(rows), nil
}

// WriteEventsParquet writes events to a Parquet file.
func WriteEventsParquet(events []schema.Event, outputPath string) error {
	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = EventRow{A: e.A, B: e.B, Weight: e.Weight, Time: e.Time}
	}
	return writeParquet(rows, outputPath)
}

// WriteResultsParquet writes result rows to a Parquet file.
func WriteResultsParquet(data []ResultRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertEventRows converts Parquet rows to schema events.
func ConvertEventRows(rows []EventRow) []schema.Event {
	events := make([]schema.Event, len(rows))
	for i, r := range rows {
		events[i] = schema.Event{A: r.A, B: r.B, Weight: r.Weight, Time: r.Time.UTC()}
	}
	return events
}

// ConvertResultTable flattens a result table into long-format rows.
func ConvertResultTable(table *schema.ResultTable) []ResultRow {
	var result []ResultRow
	for i, r := range table.Rows {
		base := ResultRow{
			WindowIndex: int32(i),
			WindowStart: r.WindowStart,
			WindowEnd:   r.WindowEnd,
			EventCount:  int64(r.EventCount),
			CILow:       nullable(r.CILow),
			CIHigh:      nullable(r.CIHigh),
			Convergence: nullable(r.Convergence),
		}
		switch r.Measure.Kind() {
		case schema.NodeKind, schema.PairKind:
			if r.Measure.Len() == 0 {
				result = append(result, base)
				continue
			}
			for _, k := range r.Measure.Keys() {
				row := base
				row.Key = k
				row.Measure = nullable(r.Measure.At(k))
				result = append(result, row)
			}
		default:
			base.Measure = nullable(r.Measure.Float())
			result = append(result, base)
		}
	}
	return result
}

// nullable maps NaN and Inf to a null cell.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

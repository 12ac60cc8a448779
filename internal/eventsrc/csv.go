package eventsrc

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"
)

// csvFields is the fixed column order: endpointA, endpointB, weight, timestamp.
const csvFields = 4

// CSVSource reads events from a comma-separated file. A header row is
// detected when its weight cell is not a number.
type CSVSource struct {
	path string
}

var _ contract.EventSource = &CSVSource{} // Compile-time check

// NewCSVSource returns a source for the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Describe implements the EventSource interface.
func (s *CSVSource) Describe() string { return "csv " + s.path }

// Close implements the EventSource interface.
func (s *CSVSource) Close() error { return nil }

// Load implements the EventSource interface.
func (s *CSVSource) Load(ctx context.Context) ([]schema.Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(ctx, f)
}

// ReadCSV parses events from r.
func ReadCSV(ctx context.Context, r io.Reader) ([]schema.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = csvFields
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var events []schema.Event
	for line := 1; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && isHeader(record) {
			continue
		}
		ev, err := parseRecord(record)
		if err != nil {
			row, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", row, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func isHeader(record []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	return err != nil
}

func parseRecord(record []string) (schema.Event, error) {
	weight, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return schema.Event{}, fmt.Errorf("invalid weight %q", record[2])
	}
	ts, err := contract.ParseTimestamp(record[3])
	if err != nil {
		return schema.Event{}, err
	}
	return schema.Event{
		A:      strings.TrimSpace(record[0]),
		B:      strings.TrimSpace(record[1]),
		Weight: weight,
		Time:   ts,
	}, nil
}

package eventsrc

import (
	"context"

	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/internal/parquet"
	"github.com/huangsam/netseries/schema"
)

// ParquetSource reads events from a Parquet file with columns a, b, weight, time.
type ParquetSource struct {
	path string
}

var _ contract.EventSource = &ParquetSource{} // Compile-time check

// NewParquetSource returns a source for the file at path.
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

// Describe implements the EventSource interface.
func (s *ParquetSource) Describe() string { return "parquet " + s.path }

// Close implements the EventSource interface.
func (s *ParquetSource) Close() error { return nil }

// Load implements the EventSource interface.
func (s *ParquetSource) Load(ctx context.Context) ([]schema.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parquet.ReadEventsParquet(s.path)
}

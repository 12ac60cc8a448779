// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults prints a result table using the configured output format.
func (ow *OutWriter) WriteResults(table *schema.ResultTable, cfg *contract.Config, duration time.Duration) error {
	return WriteResults(table, cfg, duration)
}

// WriteWindows prints a window schedule using the configured output format.
func (ow *OutWriter) WriteWindows(windows []schema.WindowSummary, cfg *contract.Config) error {
	return WriteWindows(windows, cfg)
}

// WriteMeasures prints the named measure catalog using the configured output format.
func (ow *OutWriter) WriteMeasures(defs []measures.Definition, cfg *contract.Config) error {
	return WriteMeasures(defs, cfg)
}

// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/netseries/schema"
)

// EventSource loads the raw events of a run from a file or a database.
// This allows the pipeline to be tested without real files or servers.
type EventSource interface {
	// Load reads every event. Rows are returned in source order.
	Load(ctx context.Context) ([]schema.Event, error)

	// Describe returns a short human-readable name of the source.
	Describe() string

	// Close releases any underlying handle.
	Close() error
}

package core

import (
	"github.com/huangsam/netseries/core/agg"
	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/schema"
)

// SnapshotBuilder turns one window's raw events into a graph snapshot.
// Observed windows, permuted samples and convergence subsamples all go
// through the same steps so they share aggregation rules.
type SnapshotBuilder struct {
	window schema.Window
	spans  map[string]eventlog.Span
	opts   agg.Options

	events []schema.Event
	edges  []schema.EdgeRecord
}

// NewSnapshotBuilder is the starting point for building a window snapshot.
// Trimming reads spans, which must cover the whole log.
func NewSnapshotBuilder(w schema.Window, spans map[string]eventlog.Span, opts agg.Options) *SnapshotBuilder {
	return &SnapshotBuilder{window: w, spans: spans, opts: opts}
}

// WithEvents sets the raw events of the window.
func (b *SnapshotBuilder) WithEvents(events []schema.Event) *SnapshotBuilder {
	b.events = events
	return b
}

// Aggregate sums, transforms and trims the events into edges.
func (b *SnapshotBuilder) Aggregate() *SnapshotBuilder {
	b.edges = agg.Edges(b.events, b.window, b.spans, b.opts)
	return b
}

// Build returns the snapshot. EventCount is the raw pre-trim event count.
func (b *SnapshotBuilder) Build() *graph.Snapshot {
	return graph.Build(b.edges, b.opts.Directed, graph.Meta{
		Index:       b.window.Index,
		EventCount:  len(b.events),
		WindowStart: b.window.Start,
		WindowEnd:   b.window.End,
	})
}

// buildSnapshot runs every builder step in order.
func buildSnapshot(events []schema.Event, w schema.Window, spans map[string]eventlog.Span, opts agg.Options) *graph.Snapshot {
	return NewSnapshotBuilder(w, spans, opts).
		WithEvents(events). // Raw window events
		Aggregate().        // Sum, ratio index, trim
		Build()
}

// Package schema has the models and constants shared by all parts of netseries.
package schema

import (
	"fmt"
	"time"
)

// Event is a single weighted interaction between two parties at a point in time.
// Events are values and are never mutated once they enter an event log.
type Event struct {
	A      string    `json:"a"`      // First endpoint
	B      string    `json:"b"`      // Second endpoint
	Weight float64   `json:"weight"` // Interaction weight (non-negative)
	Time   time.Time `json:"time"`   // When the interaction happened
}

// Window is the half-open time interval [Start, End) aggregated into one snapshot.
type Window struct {
	Index int       `json:"index"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// String renders the window as [start, end).
func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// EdgeRecord is one aggregated edge of a window. (From, To) is unique within a
// window's edge list; for undirected graphs From sorts before To.
type EdgeRecord struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Key returns the pair key of the edge.
func (e EdgeRecord) Key(directed bool) string {
	return PairKey(e.From, e.To, directed)
}

// Diagnostic is a non-fatal condition raised during a run.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

// String renders the diagnostic for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// CanonicalPair orders an endpoint pair. Directed pairs keep their order,
// undirected pairs are sorted so (a,b) and (b,a) share a key.
func CanonicalPair(a, b string, directed bool) (string, string) {
	if !directed && b < a {
		return b, a
	}
	return a, b
}

// PairKey formats a pair as "a->b" when directed and "a|b" otherwise.
func PairKey(a, b string, directed bool) string {
	if directed {
		return a + "->" + b
	}
	a, b = CanonicalPair(a, b, false)
	return a + "|" + b
}

// WindowSummary describes one scheduled window and how many events it holds.
type WindowSummary struct {
	Window
	EventCount int `json:"eventCount"`
}

// Package eventlog holds the validated, time-ordered event log that every
// window of a run reads from.
package eventlog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/huangsam/netseries/schema"
)

var (
	// ErrEmptyLog indicates the log has no events.
	ErrEmptyLog = errors.New("eventlog: log must contain at least one event")
	// ErrEmptyEndpoint indicates an event with a blank endpoint.
	ErrEmptyEndpoint = errors.New("eventlog: event endpoints must be non-empty")
	// ErrBadWeight indicates a negative or non-finite weight.
	ErrBadWeight = errors.New("eventlog: event weight must be finite and non-negative")
	// ErrSelfLoop indicates an event whose endpoints are equal.
	ErrSelfLoop = errors.New("eventlog: event endpoints must differ")
)

// Span is the first and last time a node appears anywhere in the log.
type Span struct {
	FirstSeen time.Time
	LastSeen  time.Time
}

// Log is an immutable collection of events sorted by time.
type Log struct {
	events []schema.Event
	spans  map[string]Span
}

// New validates events and returns a log sorted by time. Events with equal
// timestamps keep their input order. The input slice is not modified.
func New(events []schema.Event) (*Log, error) {
	if len(events) == 0 {
		return nil, ErrEmptyLog
	}
	for i, e := range events {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}

	sorted := slices.Clone(events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	spans := make(map[string]Span)
	for _, e := range sorted {
		for _, id := range []string{e.A, e.B} {
			s, ok := spans[id]
			if !ok {
				s.FirstSeen = e.Time
			}
			s.LastSeen = e.Time
			spans[id] = s
		}
	}
	return &Log{events: sorted, spans: spans}, nil
}

func validate(e schema.Event) error {
	switch {
	case e.A == "" || e.B == "":
		return ErrEmptyEndpoint
	case math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0:
		return ErrBadWeight
	case e.A == e.B:
		return fmt.Errorf("%w: %q", ErrSelfLoop, e.A)
	}
	return nil
}

// Len returns the number of events.
func (l *Log) Len() int { return len(l.events) }

// Min returns the earliest timestamp.
func (l *Log) Min() time.Time { return l.events[0].Time }

// Max returns the latest timestamp.
func (l *Log) Max() time.Time { return l.events[len(l.events)-1].Time }

// Events returns the sorted events. Callers must not modify the slice.
func (l *Log) Events() []schema.Event { return l.events }

// Span returns the global first/last seen times of a node.
func (l *Log) Span(id string) (Span, bool) {
	s, ok := l.spans[id]
	return s, ok
}

// Spans returns the span lookup used when trimming windows.
func (l *Log) Spans() map[string]Span { return l.spans }

// Nodes returns every node identifier, sorted.
func (l *Log) Nodes() []string {
	nodes := make([]string, 0, len(l.spans))
	for id := range l.spans {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)
	return nodes
}

// Between returns the events with start <= t < end as a sub-slice of the log.
func (l *Log) Between(start, end time.Time) []schema.Event {
	lo := sort.Search(len(l.events), func(i int) bool {
		return !l.events[i].Time.Before(start)
	})
	hi := sort.Search(len(l.events), func(i int) bool {
		return !l.events[i].Time.Before(end)
	})
	if hi < lo {
		hi = lo
	}
	return l.events[lo:hi:hi]
}

// Window returns the events that fall inside w.
func (l *Log) Window(w schema.Window) []schema.Event {
	return l.Between(w.Start, w.End)
}

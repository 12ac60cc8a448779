package core

import (
	"testing"
	"time"

	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/schema"
	"github.com/stretchr/testify/require"
)

const dayDur = 24 * time.Hour

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n-1) }

func ev(a, b string, w float64, d int) schema.Event {
	return schema.Event{A: a, B: b, Weight: w, Time: day(d)}
}

// scenarioLog is A-B twice in the first ten days and B-C once later.
func scenarioLog(t *testing.T) *eventlog.Log {
	t.Helper()
	log, err := eventlog.New([]schema.Event{
		ev("A", "B", 1, 1),
		ev("A", "B", 1, 5),
		ev("B", "C", 2, 20),
	})
	require.NoError(t, err)
	return log
}

func mustLog(t *testing.T, events ...schema.Event) *eventlog.Log {
	t.Helper()
	log, err := eventlog.New(events)
	require.NoError(t, err)
	return log
}

// busyLog spreads many events over many nodes and days.
func busyLog(t *testing.T) *eventlog.Log {
	t.Helper()
	nodes := []string{"a", "b", "c", "d", "e", "f"}
	var events []schema.Event
	for d := 1; d <= 60; d++ {
		for k := range 4 {
			i := (d + k) % len(nodes)
			j := (d*3 + k + 1) % len(nodes)
			if i == j {
				j = (j + 1) % len(nodes)
			}
			events = append(events, ev(nodes[i], nodes[j], float64(1+k), d))
		}
	}
	log, err := eventlog.New(events)
	require.NoError(t, err)
	return log
}

func edgeCount(s *graph.Snapshot) (schema.Value, error) {
	return schema.Scalar(float64(s.EdgeCount())), nil
}

func totalWeight(s *graph.Snapshot) (schema.Value, error) {
	return schema.Scalar(s.TotalWeight()), nil
}

// recordingObserver keeps everything it receives.
type recordingObserver struct {
	diagnostics []schema.Diagnostic
	progress    map[schema.Stage]int
}

func (r *recordingObserver) Diagnose(d schema.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *recordingObserver) Progress(stage schema.Stage, done, _ int) {
	if r.progress == nil {
		r.progress = make(map[schema.Stage]int)
	}
	r.progress[stage] = max(r.progress[stage], done)
}

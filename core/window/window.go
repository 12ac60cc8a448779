// Package window schedules the fixed-size, fixed-shift time windows that a
// run aggregates events over.
package window

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/huangsam/netseries/schema"
)

var (
	// ErrBadSize indicates a non-positive window size.
	ErrBadSize = errors.New("window: size must be positive")
	// ErrBadShift indicates a non-positive window shift.
	ErrBadShift = errors.New("window: shift must be positive")
	// ErrBadResolution indicates a negative timestamp resolution.
	ErrBadResolution = errors.New("window: resolution must not be negative")
	// ErrBadRange indicates that the range ends before it starts.
	ErrBadRange = errors.New("window: range end precedes range start")
)

// Params configures a schedule over the range [Min, Max+Resolution].
type Params struct {
	Min        time.Time
	Max        time.Time
	Size       time.Duration
	Shift      time.Duration
	Start      time.Time     // zero means Min
	Resolution time.Duration // granularity of the timestamps; the last unit is covered in full
}

// Schedule is a finite, restartable sequence of windows.
type Schedule struct {
	start time.Time
	size  time.Duration
	shift time.Duration
	count int
}

// New validates p and computes the schedule. A range too short for a single
// window is not an error; it yields an empty schedule and a diagnostic.
func New(p Params) (*Schedule, []schema.Diagnostic, error) {
	switch {
	case p.Size <= 0:
		return nil, nil, ErrBadSize
	case p.Shift <= 0:
		return nil, nil, ErrBadShift
	case p.Resolution < 0:
		return nil, nil, ErrBadResolution
	case p.Max.Before(p.Min):
		return nil, nil, ErrBadRange
	}

	start := p.Start
	if start.IsZero() {
		start = p.Min
	}
	end := p.Max.Add(p.Resolution)

	s := &Schedule{start: start, size: p.Size, shift: p.Shift}
	span := end.Sub(start)
	if span < p.Size {
		msg := fmt.Sprintf("window size %s exceeds the observed range %s; no windows produced", p.Size, span)
		return s, []schema.Diagnostic{{Kind: schema.ConfigurationWarning, Message: msg}}, nil
	}
	s.count = int((span-p.Size)/p.Shift) + 1
	return s, nil, nil
}

// Len returns the number of windows.
func (s *Schedule) Len() int { return s.count }

// At returns the window with index k.
func (s *Schedule) At(k int) schema.Window {
	ws := s.start.Add(time.Duration(k) * s.shift)
	return schema.Window{Index: k, Start: ws, End: ws.Add(s.size)}
}

// Iter returns a fresh sequence over the windows in start order.
func (s *Schedule) Iter() iter.Seq[schema.Window] {
	return func(yield func(schema.Window) bool) {
		for k := range s.count {
			if !yield(s.At(k)) {
				return
			}
		}
	}
}

// All materializes the schedule.
func (s *Schedule) All() []schema.Window {
	out := make([]schema.Window, 0, s.count)
	for w := range s.Iter() {
		out = append(out, w)
	}
	return out
}

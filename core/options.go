package core

import (
	"fmt"
	"time"

	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/schema"
)

// Defaults applied to zero-valued options.
const (
	DefaultConfidenceLevel = 0.95
	DefaultSampleFloor     = 30
	DefaultMaxSwapRetries  = 1000
	DefaultLag             = 1
)

// MeasureFunc computes a value from one snapshot.
type MeasureFunc func(s *graph.Snapshot) (schema.Value, error)

// LaggedFunc computes a value from an earlier and a current snapshot, in that order.
type LaggedFunc func(prev, cur *graph.Snapshot) (schema.Value, error)

// Observer receives diagnostics and progress as a run advances. It is a side
// channel only; results never depend on it.
type Observer interface {
	Diagnose(d schema.Diagnostic)
	Progress(stage schema.Stage, done, total int)
}

// NopObserver discards everything.
type NopObserver struct{}

// Diagnose implements Observer.
func (NopObserver) Diagnose(schema.Diagnostic) {}

// Progress implements Observer.
func (NopObserver) Progress(schema.Stage, int, int) {}

// Options configures a run.
type Options struct {
	WindowSize  time.Duration
	WindowShift time.Duration
	StartTime   time.Time     // zero means the first event
	Resolution  time.Duration // timestamp granularity; extends the range end

	Measure       MeasureFunc // used unless Lagged
	LaggedMeasure LaggedFunc  // used when Lagged
	Directed      bool
	Lagged        bool
	Lag           int
	FirstNetOnly  bool

	Workers                int // 1 or less is sequential
	PermutationCount       int // 0 disables
	ConfidenceLevel        float64
	ConvergenceCheck       bool
	ConvergenceSampleFloor int
	Trim                   bool
	UseRatioIndex          bool

	MaxSwapRetries int
	Seed           uint64 // 0 uses a fixed default
	Observer       Observer
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = DefaultConfidenceLevel
	}
	if o.ConvergenceSampleFloor == 0 {
		o.ConvergenceSampleFloor = DefaultSampleFloor
	}
	if o.MaxSwapRetries == 0 {
		o.MaxSwapRetries = DefaultMaxSwapRetries
	}
	if o.Lagged && o.Lag == 0 {
		o.Lag = DefaultLag
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o
}

// validate checks options after defaults are applied.
func (o Options) validate() error {
	if o.WindowSize <= 0 || o.WindowShift <= 0 {
		return fmt.Errorf("%w: size=%s shift=%s", ErrInvalidWindow, o.WindowSize, o.WindowShift)
	}
	if o.Lagged {
		if o.LaggedMeasure == nil {
			return fmt.Errorf("%w: lagged mode without a lagged measure", ErrUnresolvedMeasure)
		}
		if o.Lag < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidLag, o.Lag)
		}
		if o.PermutationCount > 0 || o.ConvergenceCheck {
			return ErrLaggedDiagnostics
		}
	} else if o.Measure == nil {
		return ErrUnresolvedMeasure
	}
	if o.ConfidenceLevel <= 0 || o.ConfidenceLevel >= 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidConfidence, o.ConfidenceLevel)
	}
	if o.PermutationCount < 0 || o.ConvergenceSampleFloor < 0 || o.MaxSwapRetries < 0 {
		return ErrInvalidOptions
	}
	return nil
}

// extraction returns the extraction settings implied by o.
func (o Options) extraction() ExtractOptions {
	return ExtractOptions{
		Directed:   o.Directed,
		RatioIndex: o.UseRatioIndex,
		Trim:       o.Trim,
		Workers:    o.Workers,
		Observer:   o.Observer,
	}
}

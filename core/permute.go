package core

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/huangsam/netseries/core/agg"
	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/schema"
)

// PermuteOptions configures the null-model interval.
type PermuteOptions struct {
	Count          int     // permutations per window
	Level          float64 // confidence level in (0, 1)
	MaxSwapRetries int     // rejected swaps allowed before giving up
	Seed           uint64
	Aggregation    agg.Options // must match the observed snapshots
	Observer       Observer
}

// Permute computes a null-model interval per window. Each permutation starts
// from the observed events of the window, swaps one endpoint column between
// two distinct rows without creating a self-loop, and measures the rebuilt
// snapshot. Windows with fewer than two events get a missing interval.
func Permute(ctx context.Context, log *eventlog.Log, windows []schema.Window, fn MeasureFunc, opts PermuteOptions) ([]Interval, error) {
	if fn == nil {
		return nil, ErrUnresolvedMeasure
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.MaxSwapRetries == 0 {
		opts.MaxSwapRetries = DefaultMaxSwapRetries
	}

	ctx, span := startStageSpan(ctx, string(schema.PermuteStage), len(windows))
	defer span.End()

	out := make([]Interval, len(windows))
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iv, err := permuteWindow(ctx, log, w, fn, opts)
		if err != nil {
			return nil, fmt.Errorf("permute window %d %s: %w", w.Index, w, err)
		}
		out[i] = iv
		opts.Observer.Progress(schema.PermuteStage, i+1, len(windows))
	}
	return out, nil
}

func permuteWindow(ctx context.Context, log *eventlog.Log, w schema.Window, fn MeasureFunc, opts PermuteOptions) (Interval, error) {
	observed := log.Window(w)
	if len(observed) < 2 || opts.Count < 1 {
		return missingInterval(), nil
	}

	rng := windowRNG(opts.Seed, w.Index, permuteStream)
	values := make([]float64, 0, opts.Count)
	sample := make([]schema.Event, len(observed))
	rejected := 0
	defer func() { recordSwapRejections(ctx, rejected) }()

	for range opts.Count {
		copy(sample, observed)
		n, err := swapOnce(sample, rng, opts.MaxSwapRetries)
		rejected += n
		if err != nil {
			return Interval{}, err
		}
		v, err := fn(buildSnapshot(sample, w, log.Spans(), opts.Aggregation))
		if err != nil {
			return Interval{}, err
		}
		if !v.IsMissing() && !v.IsScalar() {
			return Interval{}, fmt.Errorf("%w: got %s", ErrScalarRequired, v.Kind())
		}
		values = append(values, v.Float())
	}
	return empiricalInterval(values, opts.Level), nil
}

// swapOnce picks the A or B column with equal probability and swaps it
// between two distinct rows. A swap that leaves either touched row with equal
// endpoints is undone and a fresh pair is drawn, at most maxRetries times.
// It returns the number of rejected swaps.
func swapOnce(events []schema.Event, rng *rand.Rand, maxRetries int) (int, error) {
	n := len(events)
	if n < 2 {
		return 0, nil
	}
	swapB := rng.IntN(2) == 1
	for attempt := 0; attempt <= maxRetries; attempt++ {
		i := rng.IntN(n)
		j := rng.IntN(n - 1)
		if j >= i {
			j++
		}
		swapColumn(events, swapB, i, j)
		if events[i].A != events[i].B && events[j].A != events[j].B {
			return attempt, nil
		}
		swapColumn(events, swapB, i, j)
	}
	return maxRetries + 1, fmt.Errorf("%w after %d attempts on %d events", ErrPermutationRetryExhausted, maxRetries+1, n)
}

func swapColumn(events []schema.Event, swapB bool, i, j int) {
	if swapB {
		events[i].B, events[j].B = events[j].B, events[i].B
		return
	}
	events[i].A, events[j].A = events[j].A, events[i].A
}

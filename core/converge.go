package core

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/huangsam/netseries/core/agg"
	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/schema"
	"gonum.org/v1/gonum/stat"
)

// ConvergeOptions configures the sample-size convergence check.
type ConvergeOptions struct {
	SampleFloor int // subsample sizes run from max(N-SampleFloor, 1) to N
	Seed        uint64
	Aggregation agg.Options // must match the observed snapshots
	Observer    Observer
}

// Converge returns, per window, the OLS slope of the measure against
// subsample size. The slope is NaN when there is nothing to fit.
func Converge(ctx context.Context, log *eventlog.Log, windows []schema.Window, fn MeasureFunc, opts ConvergeOptions) ([]float64, error) {
	if fn == nil {
		return nil, ErrUnresolvedMeasure
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}

	ctx, span := startStageSpan(ctx, string(schema.ConvergeStage), len(windows))
	defer span.End()

	out := make([]float64, len(windows))
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slope, err := convergeWindow(log, w, fn, opts)
		if err != nil {
			return nil, fmt.Errorf("converge window %d %s: %w", w.Index, w, err)
		}
		out[i] = slope
		opts.Observer.Progress(schema.ConvergeStage, i+1, len(windows))
	}
	return out, nil
}

// subsampleSizes returns the inclusive range of subsample sizes for n events.
func subsampleSizes(n, floor int) (int, int) {
	return max(n-floor, 1), n
}

func convergeWindow(log *eventlog.Log, w schema.Window, fn MeasureFunc, opts ConvergeOptions) (float64, error) {
	events := log.Window(w)
	if len(events) < 1 {
		return math.NaN(), nil
	}

	rng := windowRNG(opts.Seed, w.Index, convergeStream)
	lo, hi := subsampleSizes(len(events), opts.SampleFloor)
	xs := make([]float64, 0, hi-lo+1)
	ys := make([]float64, 0, hi-lo+1)
	for j := lo; j <= hi; j++ {
		v, err := fn(buildSnapshot(subsample(events, j, rng), w, log.Spans(), opts.Aggregation))
		if err != nil {
			return 0, err
		}
		if !v.IsMissing() && !v.IsScalar() {
			return 0, fmt.Errorf("%w: got %s", ErrScalarRequired, v.Kind())
		}
		if y := v.Float(); !math.IsNaN(y) && !math.IsInf(y, 0) {
			xs = append(xs, float64(j))
			ys = append(ys, y)
		}
	}
	return slope(xs, ys), nil
}

// subsample draws k events uniformly without replacement.
func subsample(events []schema.Event, k int, rng *rand.Rand) []schema.Event {
	idx := rng.Perm(len(events))[:k]
	out := make([]schema.Event, k)
	for i, p := range idx {
		out[i] = events[p]
	}
	return out
}

// slope fits y = a + b*x and returns b, or NaN without two distinct x values.
func slope(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	distinct := false
	for _, x := range xs[1:] {
		if x != xs[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return math.NaN()
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

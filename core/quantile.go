package core

import (
	"math"
	"slices"
)

// Interval is a two-sided empirical interval. Bounds are NaN when missing.
type Interval struct {
	Low  float64
	High float64
}

// missingInterval has both bounds missing.
func missingInterval() Interval {
	return Interval{Low: math.NaN(), High: math.NaN()}
}

// empiricalInterval returns the (1-level)/2 and 1-(1-level)/2 quantiles of
// values, ignoring NaN.
func empiricalInterval(values []float64, level float64) Interval {
	usable := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			usable = append(usable, v)
		}
	}
	if len(usable) == 0 {
		return missingInterval()
	}
	slices.Sort(usable)
	tail := (1 - level) / 2
	return Interval{
		Low:  quantile(usable, tail),
		High: quantile(usable, 1-tail),
	}
}

// quantile interpolates linearly between order statistics at (n-1)p, the
// common "type 7" definition. sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	if i < 0 {
		return sorted[0]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

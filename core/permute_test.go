package core

import (
	"context"
	"math"
	"testing"

	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapOnceNeverCreatesSelfLoops(t *testing.T) {
	observed := []schema.Event{
		ev("a", "b", 1, 1),
		ev("b", "c", 1, 1),
		ev("c", "a", 1, 1),
		ev("a", "c", 1, 1),
		ev("b", "a", 1, 1),
	}
	rng := windowRNG(3, 0, permuteStream)
	sample := make([]schema.Event, len(observed))
	for range 500 {
		copy(sample, observed)
		_, err := swapOnce(sample, rng, DefaultMaxSwapRetries)
		require.NoError(t, err)

		changed := 0
		for i, e := range sample {
			assert.NotEqual(t, e.A, e.B)
			assert.Equal(t, observed[i].Weight, e.Weight)
			assert.Equal(t, observed[i].Time, e.Time)
			if e != observed[i] {
				changed++
			}
		}
		assert.LessOrEqual(t, changed, 2, "one swap touches at most two rows")
	}
}

func TestSwapOnceRetryExhaustion(t *testing.T) {
	// Any swap of either column turns both rows into self-loops.
	events := []schema.Event{ev("a", "b", 1, 1), ev("b", "a", 1, 1)}
	rng := windowRNG(1, 0, permuteStream)

	rejected, err := swapOnce(events, rng, 25)
	assert.ErrorIs(t, err, ErrPermutationRetryExhausted)
	assert.Equal(t, 26, rejected)
	assert.Equal(t, []schema.Event{ev("a", "b", 1, 1), ev("b", "a", 1, 1)}, events, "rejected swaps are undone")
}

func TestPermuteRetryExhaustionIsFatal(t *testing.T) {
	log := mustLog(t, ev("a", "b", 1, 1), ev("b", "a", 1, 2))
	opts := Options{
		WindowSize:       2 * dayDur,
		WindowShift:      2 * dayDur,
		Resolution:       dayDur,
		Measure:          edgeCount,
		PermutationCount: 5,
		MaxSwapRetries:   10,
	}
	table, err := Run(context.Background(), log, opts)
	assert.ErrorIs(t, err, ErrPermutationRetryExhausted)
	assert.Contains(t, err.Error(), "permute window 0")
	assert.Nil(t, table)
}

func TestPermuteDegenerateWindows(t *testing.T) {
	log := scenarioLog(t)
	windows := []schema.Window{
		{Index: 0, Start: day(1), End: day(11)},  // two events
		{Index: 1, Start: day(11), End: day(21)}, // one event
		{Index: 2, Start: day(30), End: day(40)}, // none
	}

	intervals, err := Permute(context.Background(), log, windows, edgeCount, PermuteOptions{Count: 10, Level: 0.9})
	require.NoError(t, err)
	require.Len(t, intervals, 3)
	assert.Equal(t, 1.0, intervals[0].Low)
	assert.Equal(t, 1.0, intervals[0].High)
	for _, iv := range intervals[1:] {
		assert.True(t, math.IsNaN(iv.Low))
		assert.True(t, math.IsNaN(iv.High))
	}
}

func TestPermuteRequiresScalar(t *testing.T) {
	keyed := func(*graph.Snapshot) (schema.Value, error) {
		return schema.NodeValues(map[string]float64{"a": 1}), nil
	}
	windows := []schema.Window{{Start: day(1), End: day(11)}}
	_, err := Permute(context.Background(), scenarioLog(t), windows, keyed, PermuteOptions{Count: 3, Level: 0.95})
	assert.ErrorIs(t, err, ErrScalarRequired)

	_, err = Permute(context.Background(), scenarioLog(t), windows, nil, PermuteOptions{Count: 3, Level: 0.95})
	assert.ErrorIs(t, err, ErrUnresolvedMeasure)
}

func TestPermuteMissingValuesExcluded(t *testing.T) {
	calls := 0
	alternating := func(*graph.Snapshot) (schema.Value, error) {
		calls++
		if calls%2 == 0 {
			return schema.Missing(), nil
		}
		return schema.Scalar(float64(calls)), nil
	}
	windows := []schema.Window{{Start: day(1), End: day(11)}}
	intervals, err := Permute(context.Background(), scenarioLog(t), windows, alternating, PermuteOptions{Count: 5, Level: 0.5})
	require.NoError(t, err)
	// usable values are 1, 3, 5: quartiles are 2 and 4
	assert.InDelta(t, 2.0, intervals[0].Low, 1e-12)
	assert.InDelta(t, 4.0, intervals[0].High, 1e-12)
}

func TestPermuteSeededAndNested(t *testing.T) {
	log := busyLog(t)
	windows := []schema.Window{{Start: day(1), End: day(31)}, {Index: 1, Start: day(31), End: day(61)}}
	run := func(level float64) []Interval {
		intervals, err := Permute(context.Background(), log, windows, edgeCount, PermuteOptions{Count: 200, Level: level, Seed: 9})
		require.NoError(t, err)
		return intervals
	}

	wide, narrow := run(0.95), run(0.5)
	assert.Equal(t, wide, run(0.95), "same seed gives the same interval")
	for i := range wide {
		assert.LessOrEqual(t, wide[i].Low, narrow[i].Low)
		assert.GreaterOrEqual(t, wide[i].High, narrow[i].High)
	}
}

package window

import (
	"testing"
	"time"

	"github.com/huangsam/netseries/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dayDur = 24 * time.Hour

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		err  error
	}{
		{"Zero Size", Params{Min: day(0), Max: day(1), Shift: dayDur}, ErrBadSize},
		{"Zero Shift", Params{Min: day(0), Max: day(1), Size: dayDur}, ErrBadShift},
		{"Negative Resolution", Params{Min: day(0), Max: day(1), Size: dayDur, Shift: dayDur, Resolution: -1}, ErrBadResolution},
		{"Inverted Range", Params{Min: day(2), Max: day(1), Size: dayDur, Shift: dayDur}, ErrBadRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(tt.p)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCountFormula(t *testing.T) {
	tests := []struct {
		name     string
		p        Params
		expected int
	}{
		{"Exact Fit", Params{Min: day(0), Max: day(10), Size: 10 * dayDur, Shift: dayDur}, 1},
		{"Shift One Day", Params{Min: day(0), Max: day(20), Size: 10 * dayDur, Shift: dayDur}, 11},
		{"Tumbling", Params{Min: day(0), Max: day(20), Size: 10 * dayDur, Shift: 10 * dayDur}, 2},
		{"Floor", Params{Min: day(0), Max: day(19), Size: 10 * dayDur, Shift: 10 * dayDur}, 1},
		{"Resolution Covers Last Day", Params{Min: day(1), Max: day(20), Size: 10 * dayDur, Shift: 10 * dayDur, Resolution: dayDur}, 2},
		{"Explicit Start", Params{Min: day(0), Max: day(20), Start: day(5), Size: 5 * dayDur, Shift: 5 * dayDur}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, diags, err := New(tt.p)
			require.NoError(t, err)
			assert.Empty(t, diags)
			assert.Equal(t, tt.expected, s.Len())
			assert.Len(t, s.All(), tt.expected)
		})
	}
}

func TestTooShortRangeIsDiagnostic(t *testing.T) {
	s, diags, err := New(Params{Min: day(0), Max: day(3), Size: 10 * dayDur, Shift: dayDur})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())
	require.Len(t, diags, 1)
	assert.Equal(t, schema.ConfigurationWarning, diags[0].Kind)
}

func TestWindowsAreOrderedAndRestartable(t *testing.T) {
	s, _, err := New(Params{Min: day(0), Max: day(20), Size: 10 * dayDur, Shift: 5 * dayDur})
	require.NoError(t, err)

	first := s.All()
	second := s.All()
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	for i, w := range first {
		assert.Equal(t, i, w.Index)
		assert.Equal(t, day(5*i), w.Start)
		assert.Equal(t, w.Start.Add(10*dayDur), w.End)
		assert.False(t, w.End.After(day(20)))
	}
}

func TestIterStopsEarly(t *testing.T) {
	s, _, err := New(Params{Min: day(0), Max: day(20), Size: dayDur, Shift: dayDur})
	require.NoError(t, err)

	var seen int
	for range s.Iter() {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

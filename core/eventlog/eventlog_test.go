package eventlog

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/netseries/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		events []schema.Event
		err    error
	}{
		{"Empty", nil, ErrEmptyLog},
		{"Blank Endpoint", []schema.Event{{A: "", B: "b", Weight: 1, Time: day(1)}}, ErrEmptyEndpoint},
		{"Negative Weight", []schema.Event{{A: "a", B: "b", Weight: -1, Time: day(1)}}, ErrBadWeight},
		{"NaN Weight", []schema.Event{{A: "a", B: "b", Weight: math.NaN(), Time: day(1)}}, ErrBadWeight},
		{"Self Loop", []schema.Event{{A: "a", B: "a", Weight: 1, Time: day(1)}}, ErrSelfLoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.events)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewSortsStable(t *testing.T) {
	in := []schema.Event{
		{A: "c", B: "d", Weight: 1, Time: day(3)},
		{A: "a", B: "b", Weight: 1, Time: day(1)},
		{A: "x", B: "y", Weight: 2, Time: day(1)},
	}
	log, err := New(in)
	require.NoError(t, err)

	got := log.Events()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].A)
	assert.Equal(t, "x", got[1].A)
	assert.Equal(t, "c", got[2].A)
	assert.Equal(t, day(1), log.Min())
	assert.Equal(t, day(3), log.Max())
	assert.Equal(t, "c", in[0].A, "input must not be reordered")
}

func TestSpansAndBetween(t *testing.T) {
	log, err := New([]schema.Event{
		{A: "a", B: "b", Weight: 1, Time: day(1)},
		{A: "b", B: "c", Weight: 1, Time: day(5)},
		{A: "a", B: "c", Weight: 1, Time: day(20)},
	})
	require.NoError(t, err)

	s, ok := log.Span("b")
	require.True(t, ok)
	assert.Equal(t, day(1), s.FirstSeen)
	assert.Equal(t, day(5), s.LastSeen)

	_, ok = log.Span("zzz")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b", "c"}, log.Nodes())
	assert.Len(t, log.Between(day(1), day(5)), 1)
	assert.Len(t, log.Between(day(1), day(6)), 2)
	assert.Len(t, log.Between(day(21), day(30)), 0)
	assert.Len(t, log.Window(schema.Window{Start: day(0), End: day(30)}), 3)
}

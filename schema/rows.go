package schema

import (
	"encoding/json"
	"math"
	"slices"
	"time"
)

// MeasureRow is the measurement of one window. Missing numbers are NaN.
type MeasureRow struct {
	Measure     Value
	CILow       float64
	CIHigh      float64
	EventCount  int
	WindowStart time.Time
	WindowEnd   time.Time
	Convergence float64
}

// NewMeasureRow returns a row for the window metadata with every optional
// number missing.
func NewMeasureRow(v Value, eventCount int, start, end time.Time) MeasureRow {
	return MeasureRow{
		Measure:     v,
		CILow:       math.NaN(),
		CIHigh:      math.NaN(),
		EventCount:  eventCount,
		WindowStart: start,
		WindowEnd:   end,
		Convergence: math.NaN(),
	}
}

// ResultTable is the ordered output of a run, one row per window.
type ResultTable struct {
	Rows           []MeasureRow
	HasCI          bool
	HasConvergence bool
	Level          float64 // confidence level of CI bounds
	Diagnostics    []Diagnostic
}

// MeasureKeys returns the sorted union of keys over keyed rows. It is empty
// when every row is scalar or missing.
func (t *ResultTable) MeasureKeys() []string {
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		for _, k := range r.Measure.Keys() {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Columns returns the column order of the table. Keyed measures expand into
// one column per key in place of the single measure column.
func (t *ResultTable) Columns() []string {
	cols := t.MeasureKeys()
	if len(cols) == 0 {
		cols = []string{MeasureColumn}
	}
	if t.HasCI {
		cols = append(cols, CILowColumn, CIHighColumn)
	}
	cols = append(cols, EventCountColumn, WindowStartColumn, WindowEndColumn)
	if t.HasConvergence {
		cols = append(cols, ConvergenceColumn)
	}
	return cols
}

// MeasureCells returns the measure part of a row for the given keys. With no
// keys it returns the scalar.
func (r MeasureRow) MeasureCells(keys []string) []float64 {
	if len(keys) == 0 {
		return []float64{r.Measure.Float()}
	}
	cells := make([]float64, len(keys))
	for i, k := range keys {
		cells[i] = r.Measure.At(k)
	}
	return cells
}

// GetCILabel reports where a scalar measure falls relative to its null-model
// interval. It is empty when either side is missing.
func GetCILabel(r MeasureRow) string {
	v := r.Measure.Float()
	if math.IsNaN(v) || math.IsNaN(r.CILow) || math.IsNaN(r.CIHigh) {
		return ""
	}
	switch {
	case v > r.CIHigh:
		return "Above null"
	case v < r.CILow:
		return "Below null"
	default:
		return "Within null"
	}
}

type jsonRow struct {
	Measure     Value     `json:"measure"`
	CILow       *Number   `json:"ciLow,omitempty"`
	CIHigh      *Number   `json:"ciHigh,omitempty"`
	EventCount  int       `json:"eventCount"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Convergence *Number   `json:"convergence,omitempty"`
}

type jsonTable struct {
	Columns     []string     `json:"columns"`
	Level       *Number      `json:"level,omitempty"`
	Rows        []jsonRow    `json:"rows"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// MarshalJSON writes the table with optional columns only when enabled.
// Missing numbers are written as null.
func (t *ResultTable) MarshalJSON() ([]byte, error) {
	out := jsonTable{
		Columns:     t.Columns(),
		Rows:        make([]jsonRow, len(t.Rows)),
		Diagnostics: t.Diagnostics,
	}
	if t.HasCI {
		lvl := Number(t.Level)
		out.Level = &lvl
	}
	for i, r := range t.Rows {
		jr := jsonRow{
			Measure:     r.Measure,
			EventCount:  r.EventCount,
			WindowStart: r.WindowStart,
			WindowEnd:   r.WindowEnd,
		}
		if t.HasCI {
			lo, hi := Number(r.CILow), Number(r.CIHigh)
			jr.CILow, jr.CIHigh = &lo, &hi
		}
		if t.HasConvergence {
			c := Number(r.Convergence)
			jr.Convergence = &c
		}
		out.Rows[i] = jr
	}
	return json.Marshal(out)
}

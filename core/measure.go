package core

import (
	"fmt"

	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/schema"
)

// rowFor copies the snapshot metadata into a fresh row.
func rowFor(v schema.Value, s *graph.Snapshot) schema.MeasureRow {
	m := s.Meta()
	return schema.NewMeasureRow(v, m.EventCount, m.WindowStart, m.WindowEnd)
}

// Direct applies fn to every snapshot in order. Any error from fn aborts.
func Direct(snaps []*graph.Snapshot, fn MeasureFunc) ([]schema.MeasureRow, error) {
	if fn == nil {
		return nil, ErrUnresolvedMeasure
	}
	rows := make([]schema.MeasureRow, len(snaps))
	for i, s := range snaps {
		v, err := fn(s)
		if err != nil {
			return nil, fmt.Errorf("measure window %d: %w", i, err)
		}
		rows[i] = rowFor(v, s)
	}
	return rows, nil
}

// Lagged applies fn to (earlier, current) snapshot pairs. With firstNetOnly
// every snapshot is compared to the first one, including the first itself.
// Otherwise row i compares snapshot i-lag to snapshot i, and rows with no
// such earlier snapshot are missing.
func Lagged(snaps []*graph.Snapshot, fn LaggedFunc, lag int, firstNetOnly bool) ([]schema.MeasureRow, error) {
	if fn == nil {
		return nil, ErrUnresolvedMeasure
	}
	if lag < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLag, lag)
	}
	rows := make([]schema.MeasureRow, len(snaps))
	for i, cur := range snaps {
		prev := laggedPartner(snaps, i, lag, firstNetOnly)
		if prev == nil {
			rows[i] = rowFor(schema.Missing(), cur)
			continue
		}
		v, err := fn(prev, cur)
		if err != nil {
			return nil, fmt.Errorf("lagged measure window %d: %w", i, err)
		}
		rows[i] = rowFor(v, cur)
	}
	return rows, nil
}

// laggedPartner returns the earlier snapshot for row i, or nil.
func laggedPartner(snaps []*graph.Snapshot, i, lag int, firstNetOnly bool) *graph.Snapshot {
	if firstNetOnly {
		return snaps[0]
	}
	if j := i - lag; j >= 0 {
		return snaps[j]
	}
	return nil
}

// Package core has core logic for extracting a network series from an event
// log and measuring it window by window.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/core/window"
	"github.com/huangsam/netseries/schema"
)

// Run schedules windows over log, builds one snapshot per window, measures
// each one and, when requested, adds null-model intervals and convergence
// slopes. Degenerate windows yield missing values rather than errors; only
// invalid options, an unresolved measure, a measure error or exhausted
// permutation retries abort the run.
func Run(ctx context.Context, log *eventlog.Log, opts Options) (*schema.ResultTable, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if log == nil || log.Len() == 0 {
		return nil, eventlog.ErrEmptyLog
	}

	sched, diags, err := Schedule(log, opts)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		opts.Observer.Diagnose(d)
	}

	series, err := Extract(ctx, log, sched, opts.extraction())
	if err != nil {
		return nil, fmt.Errorf("extract snapshots: %w", err)
	}

	table := &schema.ResultTable{
		HasCI:          opts.PermutationCount > 0,
		HasConvergence: opts.ConvergenceCheck,
		Diagnostics:    append(diags, series.Diagnostics...),
	}
	if table.HasCI {
		table.Level = opts.ConfidenceLevel
	}

	if opts.Lagged {
		table.Rows, err = Lagged(series.Snapshots, opts.LaggedMeasure, opts.Lag, opts.FirstNetOnly)
	} else {
		table.Rows, err = Direct(series.Snapshots, opts.Measure)
	}
	if err != nil {
		return nil, err
	}
	opts.Observer.Progress(schema.MeasureStage, len(table.Rows), len(table.Rows))

	if table.HasCI {
		intervals, err := Permute(ctx, log, series.Windows, opts.Measure, PermuteOptions{
			Count:          opts.PermutationCount,
			Level:          opts.ConfidenceLevel,
			MaxSwapRetries: opts.MaxSwapRetries,
			Seed:           opts.Seed,
			Aggregation:    series.Aggregation,
			Observer:       opts.Observer,
		})
		if err != nil {
			return nil, err
		}
		for i, iv := range intervals {
			table.Rows[i].CILow, table.Rows[i].CIHigh = iv.Low, iv.High
		}
	}

	if table.HasConvergence {
		slopes, err := Converge(ctx, log, series.Windows, opts.Measure, ConvergeOptions{
			SampleFloor: opts.ConvergenceSampleFloor,
			Seed:        opts.Seed,
			Aggregation: series.Aggregation,
			Observer:    opts.Observer,
		})
		if err != nil {
			return nil, err
		}
		for i, s := range slopes {
			table.Rows[i].Convergence = s
		}
	}
	return table, nil
}

// Schedule returns the window schedule implied by opts over the log's range.
func Schedule(log *eventlog.Log, opts Options) (*window.Schedule, []schema.Diagnostic, error) {
	if opts.WindowSize <= 0 || opts.WindowShift <= 0 {
		return nil, nil, fmt.Errorf("%w: size=%s shift=%s", ErrInvalidWindow, opts.WindowSize, opts.WindowShift)
	}
	sched, diags, err := window.New(window.Params{
		Min:        log.Min(),
		Max:        log.Max(),
		Size:       opts.WindowSize,
		Shift:      opts.WindowShift,
		Start:      opts.StartTime,
		Resolution: opts.Resolution,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("schedule windows: %w", err)
	}
	return sched, diags, nil
}

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/internal/eventsrc"
	"github.com/huangsam/netseries/internal/outwriter"
	"github.com/huangsam/netseries/schema"
)

// OptionsFromConfig resolves the named measure and maps a validated config
// onto run options.
func OptionsFromConfig(cfg *contract.Config, obs Observer) (Options, error) {
	pw, err := measures.Pairwise(cfg.Pairwise)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrUnresolvedMeasure, err)
	}
	def, err := measures.Lookup(cfg.Measure, pw)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrUnresolvedMeasure, err)
	}

	opts := Options{
		WindowSize:             cfg.WindowSize,
		WindowShift:            cfg.WindowShift,
		StartTime:              cfg.StartTime,
		Resolution:             cfg.Resolution,
		Directed:               cfg.Directed,
		Lagged:                 cfg.Lagged || def.IsLagged(),
		Lag:                    cfg.Lag,
		FirstNetOnly:           cfg.FirstNetOnly,
		Workers:                cfg.Workers,
		PermutationCount:       cfg.Permutations,
		ConfidenceLevel:        cfg.Confidence,
		ConvergenceCheck:       cfg.Convergence,
		ConvergenceSampleFloor: cfg.SampleFloor,
		Trim:                   cfg.Trim,
		UseRatioIndex:          cfg.RatioIndex,
		MaxSwapRetries:         cfg.MaxSwapRetries,
		Seed:                   cfg.Seed,
		Observer:               obs,
	}
	if opts.Lagged {
		opts.LaggedMeasure = def.Lagged
	} else {
		opts.Measure = def.Direct
	}
	return opts, nil
}

// RunConfig loads the events of src and runs the configured measure.
func RunConfig(ctx context.Context, cfg *contract.Config, src contract.EventSource, obs Observer) (*schema.ResultTable, error) {
	opts, err := OptionsFromConfig(cfg, obs)
	if err != nil {
		return nil, err
	}
	log, err := eventsrc.LoadLog(ctx, src)
	if err != nil {
		return nil, err
	}
	return Run(ctx, log, opts)
}

// ScheduleConfig loads the events of src and summarizes the window schedule
// without building any snapshot.
func ScheduleConfig(ctx context.Context, cfg *contract.Config, src contract.EventSource) ([]schema.WindowSummary, []schema.Diagnostic, error) {
	log, err := eventsrc.LoadLog(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	sched, diags, err := Schedule(log, Options{
		WindowSize:  cfg.WindowSize,
		WindowShift: cfg.WindowShift,
		StartTime:   cfg.StartTime,
		Resolution:  cfg.Resolution,
	})
	if err != nil {
		return nil, nil, err
	}
	return Summarize(log, sched.All()), diags, nil
}

// Summarize counts the events of each window.
func Summarize(log *eventlog.Log, windows []schema.Window) []schema.WindowSummary {
	out := make([]schema.WindowSummary, len(windows))
	for i, w := range windows {
		out[i] = schema.WindowSummary{Window: w, EventCount: len(log.Window(w))}
	}
	return out
}

// ExecuteExtract runs the configured measure over src and prints the table.
// It serves as the main entry point for the 'extract' command.
func ExecuteExtract(ctx context.Context, cfg *contract.Config, src contract.EventSource) error {
	start := time.Now()
	obs := &contract.LogObserver{Verbose: cfg.Progress}
	table, err := RunConfig(ctx, cfg, src, obs)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteResults(table, cfg, duration)
}

// ExecuteWindows prints the window schedule of src.
// It serves as the main entry point for the 'windows' command.
func ExecuteWindows(ctx context.Context, cfg *contract.Config, src contract.EventSource) error {
	windows, diags, err := ScheduleConfig(ctx, cfg, src)
	if err != nil {
		return err
	}
	obs := &contract.LogObserver{}
	for _, d := range diags {
		obs.Diagnose(d)
	}
	return outwriter.NewOutWriter().WriteWindows(windows, cfg)
}

// ExecuteMeasures prints the named measure catalog.
func ExecuteMeasures(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteMeasures(measures.List(), cfg)
}

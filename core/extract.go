package core

import (
	"context"
	"sync"
	"time"

	"github.com/huangsam/netseries/core/agg"
	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/core/window"
	"github.com/huangsam/netseries/schema"
	"golang.org/x/sync/errgroup"
)

// ExtractOptions configures snapshot extraction.
type ExtractOptions struct {
	Directed   bool
	RatioIndex bool
	Trim       bool
	Workers    int // 1 or less is sequential
	Observer   Observer
}

// Series is the ordered list of snapshots of a schedule.
type Series struct {
	Windows     []schema.Window
	Snapshots   []*graph.Snapshot // Snapshots[i] belongs to Windows[i]
	Aggregation agg.Options       // settings actually used, after any downgrade
	Diagnostics []schema.Diagnostic
}

// Extract builds one snapshot per scheduled window. With more than one worker
// windows are built concurrently and gathered back by index. The ratio index
// is not supported in that mode and is replaced by sum aggregation with an
// unsupported_combination diagnostic.
func Extract(ctx context.Context, log *eventlog.Log, sched *window.Schedule, opts ExtractOptions) (*Series, error) {
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	windows := sched.All()
	series := &Series{
		Windows:   windows,
		Snapshots: make([]*graph.Snapshot, len(windows)),
		Aggregation: agg.Options{
			Directed:   opts.Directed,
			RatioIndex: opts.RatioIndex,
			Trim:       opts.Trim,
		},
	}

	parallel := opts.Workers > 1
	if parallel && series.Aggregation.RatioIndex {
		series.Aggregation.RatioIndex = false
		d := schema.Diagnostic{
			Kind:    schema.UnsupportedCombinationWarning,
			Message: "ratio index is not supported with parallel extraction; using sum aggregation",
		}
		series.Diagnostics = append(series.Diagnostics, d)
		opts.Observer.Diagnose(d)
	}

	ctx, span := startStageSpan(ctx, string(schema.ExtractStage), len(windows))
	defer span.End()

	x := &extractor{
		log:      log,
		opts:     series.Aggregation,
		parallel: parallel,
		observer: opts.Observer,
		total:    len(windows),
	}
	var err error
	if parallel {
		err = x.runParallel(ctx, windows, series.Snapshots, opts.Workers)
	} else {
		err = x.runSequential(ctx, windows, series.Snapshots)
	}
	if err != nil {
		return nil, err
	}
	return series, nil
}

// extractor holds the read-only state shared by every window task.
type extractor struct {
	log      *eventlog.Log
	opts     agg.Options
	parallel bool
	observer Observer
	total    int

	mu   sync.Mutex
	done int
}

func (x *extractor) snapshot(ctx context.Context, w schema.Window) *graph.Snapshot {
	start := time.Now()
	s := buildSnapshot(x.log.Window(w), w, x.log.Spans(), x.opts)
	recordWindowBuild(ctx, time.Since(start), s.EdgeCount(), x.parallel)
	return s
}

// progress serializes observer calls across workers.
func (x *extractor) progress() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.done++
	x.observer.Progress(schema.ExtractStage, x.done, x.total)
}

func (x *extractor) runSequential(ctx context.Context, windows []schema.Window, out []*graph.Snapshot) error {
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return err
		}
		out[i] = x.snapshot(ctx, w)
		x.progress()
	}
	return nil
}

// runParallel builds windows on a bounded pool. Each task writes only its
// own slot of out, so no locking is needed for the results.
func (x *extractor) runParallel(ctx context.Context, windows []schema.Window, out []*graph.Snapshot, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, w := range windows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = x.snapshot(gctx, w)
			x.progress()
			return nil
		})
	}
	return g.Wait()
}

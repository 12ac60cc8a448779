package core

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter. Both are no-ops until a provider is installed.
var (
	tracer = otel.Tracer("netseries.core")
	meter  = otel.Meter("netseries.core")
)

var (
	windowBuildLatency metric.Float64Histogram
	windowEdges        metric.Int64Histogram
	swapRejections     metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		windowBuildLatency, err = meter.Float64Histogram(
			"netseries_window_build_duration_seconds",
			metric.WithDescription("Duration of per-window snapshot builds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		windowEdges, err = meter.Int64Histogram(
			"netseries_window_edges",
			metric.WithDescription("Number of edges per window snapshot"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		swapRejections, err = meter.Int64Counter(
			"netseries_permutation_swap_rejections_total",
			metric.WithDescription("Swaps rejected because they created a self-loop"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordWindowBuild records metrics for one snapshot build.
func recordWindowBuild(ctx context.Context, duration time.Duration, edgeCount int, parallel bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("parallel", parallel))
	windowBuildLatency.Record(ctx, duration.Seconds(), attrs)
	windowEdges.Record(ctx, int64(edgeCount), attrs)
}

// recordSwapRejections counts rejected permutation swaps.
func recordSwapRejections(ctx context.Context, n int) {
	if n == 0 {
		return
	}
	if err := initMetrics(); err != nil {
		return
	}
	swapRejections.Add(ctx, int64(n))
}

// startStageSpan creates a span for one stage of a run.
func startStageSpan(ctx context.Context, stage string, windows int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "netseries."+stage,
		trace.WithAttributes(
			attribute.Int("netseries.window_count", windows),
		),
	)
}

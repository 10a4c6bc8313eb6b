package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level metric instruments, initialized lazily via InitMetrics or on first use.
var (
	stageRuns          metric.Int64Counter
	stageDuration      metric.Float64Histogram
	diagnosticsEmitted metric.Int64Counter
)

// InitMetrics initializes the run metrics using the provided meter provider.
// If not called, metrics are recorded through the global no-op meter.
func InitMetrics(provider metric.MeterProvider) {
	initMetricsWithMeter(provider.Meter("mamba/pipeline"))
}

func initMetricsWithMeter(meter metric.Meter) {
	stageRuns, _ = meter.Int64Counter(
		"mamba.pipeline.stage_runs",
		metric.WithDescription("Number of times a pipeline stage ran"),
		metric.WithUnit("{run}"),
	)
	stageDuration, _ = meter.Float64Histogram(
		"mamba.pipeline.stage_duration",
		metric.WithDescription("Pipeline stage execution duration"),
		metric.WithUnit("s"),
	)
	diagnosticsEmitted, _ = meter.Int64Counter(
		"mamba.pipeline.diagnostics",
		metric.WithDescription("Number of diagnostics emitted per stage"),
		metric.WithUnit("{diagnostic}"),
	)
}

func ensureMetricsInitialized() {
	if stageRuns == nil {
		initMetricsWithMeter(otel.Meter("mamba/pipeline"))
	}
}

// RecordStage records one stage execution: its name, duration, and how many
// diagnostics it added.
func RecordStage(stage string, dur time.Duration, diagnosticsAdded int) {
	ensureMetricsInitialized()
	attrs := attribute.String("stage", stage)
	stageRuns.Add(context.Background(), 1, metric.WithAttributes(attrs))
	stageDuration.Record(context.Background(), dur.Seconds(), metric.WithAttributes(attrs))
	if diagnosticsAdded > 0 {
		diagnosticsEmitted.Add(context.Background(), int64(diagnosticsAdded), metric.WithAttributes(attrs))
	}
}

// Package telemetry wraps pipeline stages in OpenTelemetry spans so a host
// application can observe how long lexing, parsing, and collaborator stages
// take and how many diagnostics each one produced.
//
// No tracer provider is configured here. Until the embedding application
// calls otel.SetTracerProvider, otel.Tracer returns the package-global no-op
// implementation, so instrumentation costs nothing when nobody is listening.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/juliuspleunes4/mamba/internal/pipeline"
)

// TracerName is the instrumentation name stages are reported under.
const TracerName = "github.com/juliuspleunes4/mamba"

// Stage pairs a human-readable name with the processor it instruments.
type Stage struct {
	Name      string
	Processor pipeline.Processor
}

// stagedProcessor wraps a pipeline.Processor with a span covering one Process call.
type stagedProcessor struct {
	name      string
	tracer    trace.Tracer
	processor pipeline.Processor
}

func (s *stagedProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	_, span := s.tracer.Start(context.Background(), s.name,
		trace.WithAttributes(attribute.String("mamba.file", ctx.FilePath)))
	defer span.End()

	before := len(ctx.Errors)
	start := time.Now()
	out := s.processor.Process(ctx)
	elapsed := time.Since(start)

	added := len(out.Errors) - before
	RecordStage(s.name, elapsed, added)
	span.SetAttributes(
		attribute.Int("mamba.diagnostics_added", added),
		attribute.Bool("mamba.stopped", out.Stopped),
	)
	if added > 0 {
		span.RecordError(out.Errors[len(out.Errors)-1])
	}
	return out
}

// Wrap returns the given stages' processors, each instrumented with a span
// named after its stage, ready to hand to pipeline.New.
func Wrap(stages ...Stage) []pipeline.Processor {
	tracer := otel.Tracer(TracerName)
	wrapped := make([]pipeline.Processor, len(stages))
	for i, s := range stages {
		wrapped[i] = &stagedProcessor{name: s.Name, tracer: tracer, processor: s.Processor}
	}
	return wrapped
}

package mcp

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/johncarpenter/rakuten-mcp/internal/mcp"

// telemetry instruments tool calls. Without an installed SDK the global
// providers are no-ops.
type telemetry struct {
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.calls, err = meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Number of tools/call invocations"))
	if err != nil {
		otel.Handle(err)
	}
	t.duration, err = meter.Float64Histogram("mcp.tool.duration",
		metric.WithDescription("Duration of tool handler execution"),
		metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
	}
	return t
}

func (t *telemetry) start(ctx context.Context, tool string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tools/call "+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("mcp.tool", tool)))
}

func (t *telemetry) finish(ctx context.Context, span trace.Span, tool string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	if t.calls != nil {
		t.calls.Add(ctx, 1, attrs)
	}
	if t.duration != nil {
		t.duration.Record(ctx, float64(time.Since(started).Microseconds())/1000, attrs)
	}
}

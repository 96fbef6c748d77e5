package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init builds a tracer provider for the service, installs it globally and
// returns it with its shutdown hook. Ended spans are written to log at debug
// level.
func Init(ctx context.Context, serviceName, environment string, log *zap.Logger) (*sdktrace.TracerProvider, ShutdownFunc, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			attribute.String("deployment.environment", environment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(NewLogSpanProcessor(log)),
	)
	otel.SetTracerProvider(tp)

	return tp, tp.Shutdown, nil
}

// LogSpanProcessor logs every ended span.
type LogSpanProcessor struct {
	logger *zap.Logger
}

// NewLogSpanProcessor creates a LogSpanProcessor.
func NewLogSpanProcessor(logger *zap.Logger) *LogSpanProcessor {
	return &LogSpanProcessor{logger: logger}
}

// OnStart is a no-op.
func (p *LogSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and status.
func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	fields := []zap.Field{
		zap.String("span", s.Name()),
		zap.String("trace_id", s.SpanContext().TraceID().String()),
		zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
		zap.String("status", s.Status().Code.String()),
	}
	if desc := s.Status().Description; desc != "" {
		fields = append(fields, zap.String("status_description", desc))
	}
	p.logger.Debug("span ended", fields...)
}

// Shutdown is a no-op.
func (p *LogSpanProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush is a no-op.
func (p *LogSpanProcessor) ForceFlush(context.Context) error { return nil }

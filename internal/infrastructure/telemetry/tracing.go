// Package telemetry configures OpenTelemetry tracing for the video catalog.
//
// Custom span attributes use the `auth.` and `catalog.` prefixes.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName  = "github.com/videocatalog/video-metadata-service"
	serviceName = "video-metadata-service"
)

// Tracer returns the package-level tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitTraceProvider installs an OTLP gRPC trace provider. An empty endpoint
// leaves the global noop provider in place. The returned function flushes
// and stops the provider.
func InitTraceProvider(ctx context.Context, endpoint, version string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// StartAuthenticateSpan creates the span covering bearer token resolution
// for one request.
func StartAuthenticateSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "auth.authenticate",
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndAuthenticateSpan records the outcome and ends the span.
func EndAuthenticateSpan(span trace.Span, result, username string) {
	span.SetAttributes(attribute.String("auth.result", result))
	if username != "" {
		span.SetAttributes(attribute.String("auth.username", username))
	}
	span.End()
}

// StartImportSpan creates the span for one catalog import.
func StartImportSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "catalog.import",
		trace.WithAttributes(attribute.String("catalog.source", source)),
	)
}

// EndImportSpan records how many videos were created and ends the span.
func EndImportSpan(span trace.Span, imported int, err error) {
	span.SetAttributes(attribute.Int("catalog.imported", imported))
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

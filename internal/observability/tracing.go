// Package observability provides OpenTelemetry tracing and audit logging for kerneldeps.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name used for the kerneldeps tracer.
	TracerName = "github.com/osland/kerneldeps"
)

// TracingConfig configures the OpenTelemetry tracing.
type TracingConfig struct {
	// ServiceName is the name of the service (default: "kerneldeps")
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment is the deployment environment (dev, staging, prod)
	Environment string

	// OTLPEndpoint is the OTLP gRPC endpoint (e.g., "localhost:4317")
	// If empty, tracing is disabled.
	OTLPEndpoint string

	// SampleRate is the trace sampling rate (0.0 to 1.0, default: 1.0)
	SampleRate float64
}

// DefaultTracingConfig returns a default tracing configuration.
func DefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		ServiceName:    "kerneldeps",
		ServiceVersion: "0.1.0",
		Environment:    "development",
		SampleRate:     1.0,
	}
}

// TracerProvider wraps the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes OpenTelemetry tracing.
// Returns a no-op tracer if OTLPEndpoint is empty.
func InitTracing(ctx context.Context, cfg *TracingConfig) (*TracerProvider, error) {
	if cfg == nil {
		cfg = DefaultTracingConfig()
	}

	// If no endpoint, return no-op tracer
	if cfg.OTLPEndpoint == "" {
		return &TracerProvider{
			tracer: otel.Tracer(TracerName),
		}, nil
	}

	// Create OTLP exporter
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(), // Use TLS in production
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	// Create resource with service info
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	// Create sampler
	var sampler sdktrace.Sampler
	if cfg.SampleRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else if cfg.SampleRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	// Create trace provider
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	// Set global provider and propagator
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}, nil
}

// Shutdown gracefully shuts down the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the underlying tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// SpanKind constants for kerneldeps operations.
const (
	SpanKindAnalysis = "analysis"
	SpanKindInsight  = "insight"
	SpanKindExport   = "export"
	SpanKindGate     = "gate"
	SpanKindGraph    = "graph"
	SpanKindVector   = "vector"
)

// StartAnalysisSpan starts a span for a dependency analysis run.
func StartAnalysisSpan(ctx context.Context, structure string, componentCount int) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, "analysis.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kerneldeps.span.kind", SpanKindAnalysis),
			attribute.String("analysis.structure", structure),
			attribute.Int("analysis.component_count", componentCount),
		),
	)
	return ctx, span
}

// RecordAnalysisResult records analysis outcome on a span.
func RecordAnalysisResult(span trace.Span, missingCount, cycleCount int, orderComplete bool) {
	span.SetAttributes(
		attribute.Int("analysis.missing_count", missingCount),
		attribute.Int("analysis.cycle_count", cycleCount),
		attribute.Bool("analysis.order_complete", orderComplete),
	)
}

// StartInsightSpan starts a span for an insight computation.
func StartInsightSpan(ctx context.Context, structure string, dependencyCount int) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, "insight.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kerneldeps.span.kind", SpanKindInsight),
			attribute.String("insight.structure", structure),
			attribute.Int("insight.dependency_count", dependencyCount),
		),
	)
	return ctx, span
}

// RecordInsightResult records insight outcome on a span.
func RecordInsightResult(span trace.Span, cycleCount, clusterCount int, mostCentral string) {
	span.SetAttributes(
		attribute.Int("insight.cycle_count", cycleCount),
		attribute.Int("insight.cluster_count", clusterCount),
		attribute.String("insight.most_central", mostCentral),
	)
}

// StartExportSpan starts a span for a report or graph export.
func StartExportSpan(ctx context.Context, format string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("export.%s", format),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kerneldeps.span.kind", SpanKindExport),
			attribute.String("export.format", format),
		),
	)
	return ctx, span
}

// RecordExportResult records the written artifact on a span.
func RecordExportResult(span trace.Span, path string, size int) {
	span.SetAttributes(
		attribute.String("export.path", path),
		attribute.Int("export.size_bytes", size),
	)
}

// StartGateSpan starts a span for a gate pipeline run.
func StartGateSpan(ctx context.Context, gateCount int) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, "gate.pipeline",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kerneldeps.span.kind", SpanKindGate),
			attribute.Int("gate.count", gateCount),
		),
	)
	return ctx, span
}

// RecordGateResult records gate pipeline outcome on a span.
func RecordGateResult(span trace.Span, status string, passed, failed, skipped int) {
	span.SetAttributes(
		attribute.String("gate.status", status),
		attribute.Int("gate.passed", passed),
		attribute.Int("gate.failed", failed),
		attribute.Int("gate.skipped", skipped),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d gates failed", failed))
	}
}

// StartGraphSpan starts a span for a graph database operation.
func StartGraphSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graph.%s", operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("kerneldeps.span.kind", SpanKindGraph),
			attribute.String("graph.operation", operation),
		),
	)
	return ctx, span
}

// StartVectorSpan starts a span for a vector store operation.
func StartVectorSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("vector.%s", operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("kerneldeps.span.kind", SpanKindVector),
			attribute.String("vector.operation", operation),
		),
	)
	return ctx, span
}

// RecordSearchResult records similarity search outcome on a span.
func RecordSearchResult(span trace.Span, component string, topK, resultCount int, duration time.Duration) {
	span.SetAttributes(
		attribute.String("vector.component", component),
		attribute.Int("vector.top_k", topK),
		attribute.Int("vector.result_count", resultCount),
		attribute.Int64("vector.duration_ms", duration.Milliseconds()),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

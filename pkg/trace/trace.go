// Package trace wires OpenTelemetry tracing for synthesis, audio assembly and
// batch runs.
package trace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/realtime-ai/narrator/pkg/config"
)

const (
	// TracerName is the instrumentation scope of every narrator span
	TracerName = "github.com/realtime-ai/narrator"

	serviceName = "narrator"
)

var (
	mu             sync.RWMutex
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	// stdoutWriter receives spans from the stdout exporter.
	stdoutWriter io.Writer = os.Stdout
)

// Initialize installs the global tracer provider described by cfg. The
// "none" exporter still installs a provider, so spans carry ids for log
// correlation, but nothing is exported.
func Initialize(ctx context.Context, cfg config.TraceConfig, version string) error {
	mu.Lock()
	defer mu.Unlock()

	if tracerProvider != nil {
		return errors.New("tracer provider already initialized")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return err
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tracerProvider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tracer = tracerProvider.Tracer(TracerName)

	log.Printf("[trace] initialized with exporter %s, sample rate %.2f", cfg.Exporter, cfg.SampleRate)
	return nil
}

func newExporter(ctx context.Context, cfg config.TraceConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case config.TraceStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(stdoutWriter))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exporter, nil
	case config.TraceOTLP:
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		return exporter, nil
	}
	return nil, nil
}

// Shutdown flushes pending spans and removes the provider. It is safe to
// call when tracing was never initialized.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if tracerProvider == nil {
		return nil
	}

	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil
	tracer = nil
	if err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}

// GetTracer returns the narrator tracer, or the global one before Initialize.
func GetTracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()

	if tracer == nil {
		return otel.Tracer(TracerName)
	}
	return tracer
}

// StartSpan starts a span on the narrator tracer.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, spanName, opts...)
}

// Package otel configures OpenTelemetry tracing for commands.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/talevortex/internal/platform/config"
)

const instrumentationName = "github.com/louisbranch/talevortex"

// Config controls trace export. Export stays off until Endpoint is set.
type Config struct {
	Enabled     bool    `env:"TALEVORTEX_OTEL_ENABLED"      envDefault:"true"`
	Endpoint    string  `env:"TALEVORTEX_OTEL_ENDPOINT"`
	SampleRatio float64 `env:"TALEVORTEX_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	return c.Enabled && strings.TrimSpace(c.Endpoint) != ""
}

func (c Config) sampler() sdktrace.Sampler {
	switch {
	case c.SampleRatio >= 1:
		return sdktrace.AlwaysSample()
	case c.SampleRatio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
	}
}

// Setup loads Config from the environment and installs the global tracer
// provider for serviceName. The returned shutdown flushes pending spans.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig is Setup with explicit settings. An inactive cfg installs
// nothing and returns a no-op shutdown.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (func(context.Context) error, error) {
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(cfg.sampler()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// Tracer returns the component's tracer from the global provider. Without
// Setup the spans it starts do not record.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationName + "/" + strings.TrimSpace(component))
}

func noop(context.Context) error { return nil }

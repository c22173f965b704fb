// Package observability wires OpenTelemetry tracing for the service: an OTLP
// gRPC exporter, a ratio-sampled tracer provider, and resource attributes
// identifying the process. Tracing is opt-in; when disabled the global
// no-op provider stays in place and the hub's spans cost nothing.
package observability

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"

	"github.com/duetapp/go-duet-backend/internal/config"
)

// Seams for tests; production code never swaps these.
var (
	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (sdktrace.SpanExporter, error) {
		return otlptrace.New(ctx, client)
	}
	newResourceFn = func(ctx context.Context, serviceName string) (*resource.Resource, error) {
		return resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
			),
			resource.WithProcessRuntimeDescription(),
			resource.WithHost(),
		)
	}
)

// newOTLPClient builds the gRPC OTLP client, plaintext or TLS per config.
func newOTLPClient(cfg config.OTELConfig) otlptrace.Client {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(
			credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12}),
		))
	}
	return otlptracegrpc.NewClient(opts...)
}

// SetupOTel installs the global tracer provider and propagators. It returns
// a shutdown function that flushes spans; call it during graceful shutdown.
// When tracing is disabled the returned shutdown is a no-op.
func SetupOTel(ctx context.Context, cfg config.OTELConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newOTLPExporterFn(ctx, newOTLPClient(cfg))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := newResourceFn(ctx, cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info().
		Str("endpoint", cfg.Endpoint).
		Float64("sample_ratio", cfg.SampleRatio).
		Msg("tracing enabled")

	return tp.Shutdown, nil
}

// Package tracing wires the optional OpenTelemetry pipeline. Tracing is
// off by default; when enabled without an OTLP endpoint, spans are written
// to the provided writer (the log file) so they never touch the terminal.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/stemma/internal/config"
	"github.com/zjrosen/stemma/internal/log"
)

// Init configures the global tracer provider from config and returns a
// shutdown function. When tracing is disabled the returned shutdown is a
// no-op and the default (noop) provider stays in place.
func Init(ctx context.Context, cfg config.TracingConfig, w io.Writer) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	if cfg.Endpoint != "" {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		log.Info(log.CatTrace, "Tracing to OTLP endpoint", "endpoint", cfg.Endpoint)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		log.Info(log.CatTrace, "Tracing to log file")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", "stemma"),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

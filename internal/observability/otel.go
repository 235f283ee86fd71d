// Package observability wires OpenTelemetry tracing and metrics for the process.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Trace exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Options configures Init.
type Options struct {
	ServiceName string
	// Exporter is one of none, stdout or otlp. Empty means none.
	Exporter string
	// Endpoint overrides OTEL_EXPORTER_OTLP_ENDPOINT for the otlp exporter.
	Endpoint string
	// Writer receives stdout spans; defaults to os.Stdout.
	Writer io.Writer
	Logger *slog.Logger
}

// Instruments bundles the tracer and meter providers handed to the services.
type Instruments struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	// Reader collects metrics on demand for the status endpoint.
	Reader *sdkmetric.ManualReader
}

// Init configures tracing and meters for the process.
// It returns the instruments plus a shutdown function that flushes pending spans.
func Init(ctx context.Context, opts Options) (*Instruments, func(context.Context) error, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	exporter := strings.ToLower(strings.TrimSpace(opts.Exporter))
	if exporter == "" {
		exporter = ExporterNone
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", envOrDefault("ENVIRONMENT", "local")),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build resource: %w", err)
	}

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	instruments := &Instruments{
		MeterProvider: meterProvider,
		Reader:        reader,
	}

	if exporter == ExporterNone {
		instruments.TracerProvider = tracenoop.NewTracerProvider()
		return instruments, meterProvider.Shutdown, nil
	}

	spanExporter, err := newSpanExporter(ctx, exporter, opts)
	if err != nil {
		_ = meterProvider.Shutdown(ctx)
		return nil, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	instruments.TracerProvider = tracerProvider

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}
	opts.Logger.Info("tracing enabled", "exporter", exporter)
	return instruments, shutdown, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter from the configured provider.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

// CounterTotals collects the int64 sum named name and totals its data points
// by the value of attrKey. It returns nil when no reader is configured.
func (i *Instruments) CounterTotals(ctx context.Context, name, attrKey string) (map[string]int64, error) {
	if i == nil || i.Reader == nil {
		return nil, nil
	}

	var rm metricdata.ResourceMetrics
	if err := i.Reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(attrKey))
				totals[v.Emit()] += dp.Value
			}
		}
	}
	return totals, nil
}

func newSpanExporter(ctx context.Context, exporter string, opts Options) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterStdout:
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case ExporterOTLP:
		endpoint := strings.TrimSpace(opts.Endpoint)
		if endpoint == "" {
			endpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
		}
		var httpOpts []otlptracehttp.Option
		if endpoint != "" {
			httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(endpoint))
		}
		if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0" {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, httpOpts...)
		if err == nil {
			return exp, nil
		}
		opts.Logger.Warn("failed to initialize OTLP trace exporter, falling back to stdout", "error", err)
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unknown trace exporter %q (want none, stdout or otlp)", exporter)
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

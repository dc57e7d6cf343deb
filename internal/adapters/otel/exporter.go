package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
)

const (
	serviceName    = "polyx"
	serviceVersion = "1.0.0"
)

// Exporter exports engine query metrics to an OTEL Collector.
type Exporter struct {
	provider     *sdkmetric.MeterProvider
	queriesTotal metric.Int64Counter
	errorsTotal  metric.Int64Counter
	resultSize   metric.Int64Histogram
	durationHist metric.Float64Histogram
}

// NewExporter creates an exporter pushing over OTLP/gRPC.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	return newExporter(ctx, sdkmetric.NewPeriodicReader(exp))
}

// newExporter wires the instruments onto a provider fed by reader.
func newExporter(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	queriesTotal, err := meter.Int64Counter(
		"polyx_queries_total",
		metric.WithDescription("Engine queries served"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queries counter: %w", err)
	}

	errorsTotal, err := meter.Int64Counter(
		"polyx_query_errors_total",
		metric.WithDescription("Engine queries rejected with an error"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	resultSize, err := meter.Int64Histogram(
		"polyx_query_result_size",
		metric.WithDescription("Number of items returned per query"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating result size histogram: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"polyx_query_duration_seconds",
		metric.WithDescription("Query duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Exporter{
		provider:     provider,
		queriesTotal: queriesTotal,
		errorsTotal:  errorsTotal,
		resultSize:   resultSize,
		durationHist: durationHist,
	}, nil
}

// RecordQuery records one engine operation.
func (e *Exporter) RecordQuery(ctx context.Context, q ports.QueryEvent) error {
	opt := metric.WithAttributes(attribute.String("operation", q.Operation))

	e.queriesTotal.Add(ctx, 1, opt)
	e.durationHist.Record(ctx, q.Duration.Seconds(), opt)
	if q.Failed {
		e.errorsTotal.Add(ctx, 1, opt)
		return nil
	}
	e.resultSize.Record(ctx, int64(q.ResultSize), opt)
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}

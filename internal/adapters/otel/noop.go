package otel

import (
	"context"

	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordQuery(ctx context.Context, q ports.QueryEvent) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}

// NewFromConfig returns an OTLP exporter when enabled, otherwise a no-op one.
// A collector that cannot be reached at startup degrades to no-op and reports the error.
func NewFromConfig(ctx context.Context, cfg Config) (ports.MetricsExporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOpExporter(), nil
	}
	exp, err := NewExporter(ctx, cfg)
	if err != nil {
		return NewNoOpExporter(), err
	}
	return exp, nil
}

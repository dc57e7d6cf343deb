package ports

import (
	"context"
	"time"
)

// MetricsExporter exports query metrics to an external observability system.
type MetricsExporter interface {
	// RecordQuery records one engine operation.
	RecordQuery(ctx context.Context, q QueryEvent) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// QueryEvent describes a single engine operation.
type QueryEvent struct {
	Operation  string
	ResultSize int
	Duration   time.Duration
	Failed     bool
}

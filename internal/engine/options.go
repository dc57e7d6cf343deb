package engine

import (
	"log/slog"

	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	metrics ports.MetricsExporter
}

// WithLogger sets the logger used for query tracing. Queries are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records every query on m.
func WithMetrics(m ports.MetricsExporter) Option {
	return func(c *config) {
		c.metrics = m
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

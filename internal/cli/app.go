package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/otel"
	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/storage"
	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/turso"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/infrastructure/config"
	"github.com/emiliopalmerini/polymer-explorer/internal/infrastructure/logging"
	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

// AppContext holds the shared dependencies of CLI commands. The database and
// engine are opened on first use.
type AppContext struct {
	Config  *config.Config
	Log     *slog.Logger
	Metrics ports.MetricsExporter

	db     *sql.DB
	engine *engine.Engine
}

// NewAppContext loads configuration, applies flag overrides and builds the
// logger and metrics exporter.
func NewAppContext(ctx context.Context, opts *rootOptions, logOut io.Writer) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dataset != "" {
		cfg.Dataset = opts.dataset
	}
	if opts.dbURL != "" {
		cfg.DatabaseURL = opts.dbURL
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}

	log, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	metrics, err := otel.NewFromConfig(ctx, otel.Config{
		Endpoint: cfg.OTelEndpoint,
		Enabled:  cfg.OTelEnabled,
		Insecure: cfg.OTelInsecure,
	})
	if err != nil {
		log.Warn("metrics disabled", "error", err)
		metrics = otel.NewNoOpExporter()
	}

	return &AppContext{Config: cfg, Log: log, Metrics: metrics}, nil
}

// databaseURL returns the configured database or the default local file.
func (a *AppContext) databaseURL() (string, error) {
	if a.Config.DatabaseURL != "" {
		return a.Config.DatabaseURL, nil
	}
	return util.DefaultDatabasePath()
}

// DB opens the snapshot database and applies pending migrations.
func (a *AppContext) DB(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	url, err := a.databaseURL()
	if err != nil {
		return nil, err
	}
	db, err := turso.Open(ctx, url, a.Config.AuthToken)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// Source picks where the dataset comes from: a file, the latest database
// snapshot, or the bundled sample.
func (a *AppContext) Source(ctx context.Context) (ports.DatasetSource, string, error) {
	switch {
	case a.Config.Dataset != "":
		return storage.NewFileSource(a.Config.Dataset), a.Config.Dataset, nil
	case a.Config.DatabaseURL != "":
		db, err := a.DB(ctx)
		if err != nil {
			return nil, "", err
		}
		return turso.NewLatestSource(db), a.Config.DatabaseURL, nil
	default:
		return storage.EmbeddedSource{}, "sample", nil
	}
}

// Engine loads the dataset once and wraps it in a query engine.
func (a *AppContext) Engine(ctx context.Context) (*engine.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	src, name, err := a.Source(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset from %s: %w", name, err)
	}
	a.Log.Debug("dataset loaded", "source", name, "experiments", ds.Len(), "properties", ds.Schema().Len())

	a.engine = engine.New(ds, engine.WithLogger(a.Log), engine.WithMetrics(a.Metrics))
	return a.engine, nil
}

// Close releases the database and flushes metrics.
func (a *AppContext) Close(ctx context.Context) error {
	var errs []error
	if a.Metrics != nil {
		errs = append(errs, a.Metrics.Close(ctx))
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// Package web serves the dataset explorer page and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/polymer-explorer/internal/dataset"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	sharedmw "github.com/emiliopalmerini/polymer-explorer/internal/shared/middleware"
)

//go:embed static/*
var staticFiles embed.FS

// Config holds server-specific configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Title           string
}

type Server struct {
	cfg    Config
	engine *engine.Engine
	router chi.Router
	log    *slog.Logger
	etag   string
}

// NewServer builds the router for eng. The dataset fingerprint becomes the
// ETag of the export endpoint.
func NewServer(cfg Config, eng *engine.Engine, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.Title == "" {
		cfg.Title = "Polymer Dataset Explorer"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	fp, err := dataset.Fingerprint(eng.Dataset())
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint dataset: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		engine: eng,
		router: chi.NewRouter(),
		log:    log,
		etag:   `"` + fp + `"`,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(sharedmw.Logger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(sharedmw.HTMX)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	r.Get("/", s.handleExplorer)
	r.Get("/plot.svg", s.handlePlotSVG)
	r.Get("/scatter.svg", s.handleScatterSVG)

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", s.handleAPIProperties)
		r.Get("/stats", s.handleAPIStats)
		r.Get("/points", s.handleAPIPoints)
		r.Get("/experiments", s.handleAPIExperiments)
		r.Get("/experiments/{id}", s.handleAPIExperiment)
		r.Get("/groups", s.handleAPIGroups)
		r.Get("/correlation", s.handleAPICorrelation)
		r.Get("/correlation/matrix", s.handleAPICorrelationMatrix)
		r.Get("/dataset", s.handleAPIDataset)
	})

	r.NotFound(s.handleNotFound)
	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info("starting server", "addr", s.cfg.Addr, "experiments", s.engine.Dataset().Len())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error("server shutdown error", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

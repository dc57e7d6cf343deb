// Package engine answers statistics and selection queries over a loaded
// experiment dataset. Every operation is a read; an Engine is safe for
// concurrent use.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
)

// Engine owns a read-only dataset and the statistics derived from it.
type Engine struct {
	ds  *domain.Dataset
	cfg *config

	statsOnce sync.Once
	stats     domain.PropertyStats
}

// New creates an engine over ds.
func New(ds *domain.Dataset, opts ...Option) *Engine {
	return &Engine{
		ds:  ds,
		cfg: applyOptions(opts),
	}
}

// Dataset returns the dataset the engine queries.
func (e *Engine) Dataset() *domain.Dataset {
	return e.ds
}

// PropertyList is the ordered catalogue of properties.
type PropertyList struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
	All     []string `json:"all"`
}

// ListProperties returns input and output names in dataset key order.
// All is inputs followed by outputs.
func (e *Engine) ListProperties() PropertyList {
	s := e.ds.Schema()
	return PropertyList{
		Inputs:  s.Inputs(),
		Outputs: s.Outputs(),
		All:     s.All(),
	}
}

// GetExperiment looks up an experiment by ID.
func (e *Engine) GetExperiment(id string) (*domain.Experiment, bool) {
	exp, ok := e.ds.Get(id)
	e.observe("get_experiment", time.Now(), boolSize(ok), nil)
	return exp, ok
}

// Axes selects the properties plotted on each axis and used for color.
type Axes struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Z     string `json:"z"`
	Color string `json:"color"`
}

// DefaultAxes returns the explorer's initial selection. Properties missing from
// the schema fall back to the first available names, and color to the last output.
func (e *Engine) DefaultAxes() Axes {
	s := e.ds.Schema()
	all := s.All()
	pick := func(want string, fallback int) string {
		if s.Has(want) {
			return want
		}
		return all[min(fallback, len(all)-1)]
	}

	axes := Axes{
		X:     pick("Polymer 1", 0),
		Y:     pick("Polymer 2", 1),
		Z:     pick("Viscosity", 2),
		Color: pick("Tensile Strength", len(all)-1),
	}
	return axes
}

func (a Axes) names() []string {
	return []string{a.X, a.Y, a.Z, a.Color}
}

func (e *Engine) observe(op string, start time.Time, size int, err error) {
	d := time.Since(start)
	if err != nil {
		e.cfg.logger.Debug("query failed", "op", op, "error", err, "duration", d)
	} else {
		e.cfg.logger.Debug("query", "op", op, "results", size, "duration", d)
	}

	if e.cfg.metrics == nil {
		return
	}
	q := ports.QueryEvent{
		Operation:  op,
		ResultSize: size,
		Duration:   d,
		Failed:     err != nil,
	}
	if rerr := e.cfg.metrics.RecordQuery(context.Background(), q); rerr != nil {
		e.cfg.logger.Warn("failed to record query metrics", "op", op, "error", rerr)
	}
}

func boolSize(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

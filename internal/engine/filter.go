package engine

import (
	"time"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

type boundFilter struct {
	prop     domain.Property
	min, max float64
}

// FilterExperiments returns, in dataset order, the IDs of experiments matching
// every filter. Bounds are inclusive. An empty filter list matches everything.
// Filters are not deduplicated: two filters on one property must both hold.
func (e *Engine) FilterExperiments(filters []domain.PropertyFilter) ([]string, error) {
	start := time.Now()
	ids, err := e.filterExperiments(filters)
	e.observe("filter_experiments", start, len(ids), err)
	return ids, err
}

func (e *Engine) filterExperiments(filters []domain.PropertyFilter) ([]string, error) {
	bound, err := e.bindFilters(filters)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, e.ds.Len())
	for _, exp := range e.ds.Experiments() {
		if matches(exp, bound) {
			ids = append(ids, exp.ID)
		}
	}
	return ids, nil
}

// FilterPoints keeps the points whose experiments match every filter.
func (e *Engine) FilterPoints(points []domain.DataPoint, filters []domain.PropertyFilter) ([]domain.DataPoint, error) {
	bound, err := e.bindFilters(filters)
	if err != nil {
		return nil, err
	}
	if len(bound) == 0 {
		return points, nil
	}

	kept := make([]domain.DataPoint, 0, len(points))
	for _, p := range points {
		exp := p.Experiment
		if exp == nil {
			var ok bool
			if exp, ok = e.ds.Get(p.ID); !ok {
				continue
			}
		}
		if matches(exp, bound) {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

func (e *Engine) bindFilters(filters []domain.PropertyFilter) ([]boundFilter, error) {
	schema := e.ds.Schema()
	bound := make([]boundFilter, 0, len(filters))
	for _, f := range filters {
		p, err := schema.Lookup(f.Property)
		if err != nil {
			return nil, err
		}
		bound = append(bound, boundFilter{prop: p, min: f.Min, max: f.Max})
	}
	return bound, nil
}

func matches(exp *domain.Experiment, filters []boundFilter) bool {
	for _, f := range filters {
		v := exp.Value(f.prop)
		if v < f.min || v > f.max {
			return false
		}
	}
	return true
}

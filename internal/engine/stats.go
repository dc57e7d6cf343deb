package engine

import (
	"time"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

// ComputeStats returns the min/max of every property over the whole dataset.
// The result is computed once and shared by later calls; callers must not modify it.
func (e *Engine) ComputeStats() domain.PropertyStats {
	start := time.Now()
	e.statsOnce.Do(func() {
		e.stats = computeStats(e.ds)
	})
	e.observe("compute_stats", start, len(e.stats), nil)
	return e.stats
}

func computeStats(ds *domain.Dataset) domain.PropertyStats {
	schema := ds.Schema()
	props := make([]domain.Property, 0, schema.Len())
	for _, name := range schema.All() {
		p, _ := schema.Lookup(name)
		props = append(props, p)
	}

	ranges := make([]domain.Range, len(props))
	first := ds.At(0)
	for i, p := range props {
		v := first.Value(p)
		ranges[i] = domain.Range{Min: v, Max: v}
	}

	for _, exp := range ds.Experiments()[1:] {
		for i, p := range props {
			ranges[i].Include(exp.Value(p))
		}
	}

	stats := make(domain.PropertyStats, len(props))
	for i, p := range props {
		stats[p.Name] = ranges[i]
	}
	return stats
}

// CreateDataPoints projects every experiment, in dataset order, onto the
// selected axes. Values are raw; stats is not consulted and may be nil. Display
// scaling is done by the renderer with the same stats.
func (e *Engine) CreateDataPoints(axes Axes, stats domain.PropertyStats) ([]domain.DataPoint, error) {
	start := time.Now()
	points, err := e.createDataPoints(axes)
	e.observe("create_data_points", start, len(points), err)
	return points, err
}

func (e *Engine) createDataPoints(axes Axes) ([]domain.DataPoint, error) {
	schema := e.ds.Schema()
	var props [4]domain.Property
	for i, name := range axes.names() {
		p, err := schema.Lookup(name)
		if err != nil {
			return nil, err
		}
		props[i] = p
	}

	points := make([]domain.DataPoint, 0, e.ds.Len())
	for _, exp := range e.ds.Experiments() {
		points = append(points, domain.DataPoint{
			ID:         exp.ID,
			X:          exp.Value(props[0]),
			Y:          exp.Value(props[1]),
			Z:          exp.Value(props[2]),
			Value:      exp.Value(props[3]),
			Experiment: exp,
		})
	}
	return points, nil
}

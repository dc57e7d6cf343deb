// Package plot turns engine data points into display geometry: normalized
// coordinates, colors, camera projection and SVG output.
package plot

import (
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/vec"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
)

// Normalizer maps raw property values onto [-1, 1] using dataset ranges.
type Normalizer struct {
	x, y, z scale.Linear
}

// NewNormalizer builds a normalizer for axes from stats. Properties missing
// from stats yield ErrUnknownProperty.
func NewNormalizer(axes engine.Axes, stats domain.PropertyStats) (*Normalizer, error) {
	var n Normalizer
	for _, a := range []struct {
		name string
		dst  *scale.Linear
	}{{axes.X, &n.x}, {axes.Y, &n.y}, {axes.Z, &n.z}} {
		r, ok := stats[a.name]
		if !ok {
			return nil, unknown(a.name)
		}
		*a.dst = linear(r)
	}
	return &n, nil
}

func linear(r domain.Range) scale.Linear {
	return scale.Linear{Min: r.Min, Max: r.Max}
}

// unit maps v through s into [0, 1]. A degenerate range maps to the middle.
func unit(s scale.Linear, v float64) float64 {
	if s.Max == s.Min {
		return 0.5
	}
	return s.Map(v)
}

func symmetric(s scale.Linear, v float64) float64 {
	return unit(s, v)*2 - 1
}

// Point returns p with X, Y and Z rescaled to [-1, 1]. Value is left raw.
func (n *Normalizer) Point(p domain.DataPoint) domain.DataPoint {
	p.X = symmetric(n.x, p.X)
	p.Y = symmetric(n.y, p.Y)
	p.Z = symmetric(n.z, p.Z)
	return p
}

// Points normalizes every point into a new slice.
func (n *Normalizer) Points(points []domain.DataPoint) []domain.DataPoint {
	out := make([]domain.DataPoint, len(points))
	for i, p := range points {
		out[i] = n.Point(p)
	}
	return out
}

// AxisTicks returns up to max "nice" tick values inside r.
func AxisTicks(r domain.Range, max int) []float64 {
	if r.Min == r.Max {
		return []float64{r.Min}
	}
	major, _ := linear(r).Ticks(scale.TickOptions{Max: max})
	ticks := major[:0]
	for _, t := range major {
		if r.Contains(t) {
			ticks = append(ticks, t)
		}
	}
	return ticks
}

// LegendTicks returns n evenly spaced values from r.Min to r.Max.
func LegendTicks(r domain.Range, n int) []float64 {
	if n < 2 {
		return []float64{r.Min}
	}
	return vec.Linspace(r.Min, r.Max, n)
}

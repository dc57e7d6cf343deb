package engine

import (
	"math"
	"time"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

// Correlation returns the Pearson coefficient of a and b over all experiments.
// It returns exactly 0 when either property is constant, never NaN.
func (e *Engine) Correlation(a, b string) (float64, error) {
	start := time.Now()
	r, err := e.correlation(a, b)
	e.observe("correlation", start, 1, err)
	return r, err
}

func (e *Engine) correlation(a, b string) (float64, error) {
	schema := e.ds.Schema()
	pa, err := schema.Lookup(a)
	if err != nil {
		return 0, err
	}
	pb, err := schema.Lookup(b)
	if err != nil {
		return 0, err
	}
	return pearson(e.ds, pa, pb), nil
}

func pearson(ds *domain.Dataset, pa, pb domain.Property) float64 {
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	first := ds.At(0)
	x0, y0 := first.Value(pa), first.Value(pb)
	constX, constY := true, true

	for _, exp := range ds.Experiments() {
		x, y := exp.Value(pa), exp.Value(pb)
		constX = constX && x == x0
		constY = constY && y == y0
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}
	if constX || constY {
		return 0
	}

	n := float64(ds.Len())
	num := n*sumXY - sumX*sumY
	den := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return math.Max(-1, math.Min(1, num/den))
}

// CorrelationMatrix holds pairwise coefficients; Values[i][j] is the
// correlation of Properties[i] and Properties[j].
type CorrelationMatrix struct {
	Properties []string    `json:"properties"`
	Values     [][]float64 `json:"values"`
}

// At returns the coefficient for the named pair.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, name := range m.Properties {
		if name == a {
			i = k
		}
		if name == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// CorrelationMatrix computes every pairwise coefficient of props. An empty
// props list means every property. The diagonal is 1 unless the property is
// constant.
func (e *Engine) CorrelationMatrix(props []string) (CorrelationMatrix, error) {
	start := time.Now()
	m, err := e.correlationMatrix(props)
	e.observe("correlation_matrix", start, len(m.Properties), err)
	return m, err
}

func (e *Engine) correlationMatrix(props []string) (CorrelationMatrix, error) {
	schema := e.ds.Schema()
	if len(props) == 0 {
		props = schema.All()
	}

	resolved := make([]domain.Property, len(props))
	for i, name := range props {
		p, err := schema.Lookup(name)
		if err != nil {
			return CorrelationMatrix{}, err
		}
		resolved[i] = p
	}

	values := make([][]float64, len(props))
	for i := range values {
		values[i] = make([]float64, len(props))
	}
	for i := range resolved {
		for j := i; j < len(resolved); j++ {
			r := pearson(e.ds, resolved[i], resolved[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return CorrelationMatrix{
		Properties: append([]string(nil), props...),
		Values:     values,
	}, nil
}

package domain

// Range holds the observed bounds of one property across a dataset.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Contains reports whether v lies inside the inclusive range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Include widens the range so it covers v.
func (r *Range) Include(v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// PropertyStats maps every property name to its observed range.
type PropertyStats map[string]Range

// DataPoint is an experiment projected onto four selected properties.
// Coordinates are raw property values; scaling is left to the renderer.
type DataPoint struct {
	ID         string      `json:"id"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Z          float64     `json:"z"`
	Value      float64     `json:"value"`
	Experiment *Experiment `json:"experiment,omitempty"`
}

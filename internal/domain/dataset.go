package domain

import "fmt"

// Dataset is an insertion-ordered, read-only collection of experiments sharing one schema.
type Dataset struct {
	schema *Schema
	order  []*Experiment
	byID   map[string]*Experiment
}

// NewDataset builds a dataset. Experiments must be non-empty, share schema and have unique IDs.
func NewDataset(schema *Schema, experiments []*Experiment) (*Dataset, error) {
	if len(experiments) == 0 {
		return nil, fmt.Errorf("%w: dataset has no experiments", ErrMalformedDataset)
	}

	ds := &Dataset{
		schema: schema,
		order:  make([]*Experiment, 0, len(experiments)),
		byID:   make(map[string]*Experiment, len(experiments)),
	}
	for _, e := range experiments {
		if e.schema != schema {
			return nil, fmt.Errorf("%w: experiment %s was built with a different schema", ErrMalformedDataset, e.ID)
		}
		if _, dup := ds.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate experiment id %s", ErrMalformedDataset, e.ID)
		}
		ds.byID[e.ID] = e
		ds.order = append(ds.order, e)
	}
	return ds, nil
}

// Schema returns the dataset schema.
func (d *Dataset) Schema() *Schema {
	return d.schema
}

// Len returns the number of experiments.
func (d *Dataset) Len() int {
	return len(d.order)
}

// IDs returns experiment IDs in insertion order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.order))
	for i, e := range d.order {
		ids[i] = e.ID
	}
	return ids
}

// Experiments returns the experiments in insertion order.
// The returned slice is a copy; the experiments themselves are shared.
func (d *Dataset) Experiments() []*Experiment {
	return append([]*Experiment(nil), d.order...)
}

// At returns the i-th experiment in insertion order.
func (d *Dataset) At(i int) *Experiment {
	return d.order[i]
}

// Get looks up an experiment by ID. The second result is false for unknown IDs.
func (d *Dataset) Get(id string) (*Experiment, bool) {
	e, ok := d.byID[id]
	return e, ok
}

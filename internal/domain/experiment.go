package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// NamedValue is a property name paired with its value, used for ordered views.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Experiment holds one value per schema property. It is immutable once built.
type Experiment struct {
	ID      string
	schema  *Schema
	inputs  []float64
	outputs []float64
}

// NewExperiment builds an experiment from name→value maps. Every schema property
// must be present and no extra property is allowed.
func NewExperiment(id string, schema *Schema, inputs, outputs map[string]float64) (*Experiment, error) {
	e := &Experiment{
		ID:      id,
		schema:  schema,
		inputs:  make([]float64, len(schema.inputs)),
		outputs: make([]float64, len(schema.outputs)),
	}

	if err := fill(e.inputs, schema.inputs, inputs, id, KindInput); err != nil {
		return nil, err
	}
	if err := fill(e.outputs, schema.outputs, outputs, id, KindOutput); err != nil {
		return nil, err
	}
	return e, nil
}

func fill(dst []float64, names []string, values map[string]float64, id string, kind PropertyKind) error {
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			return fmt.Errorf("%w: experiment %s is missing %s %q", ErrMalformedDataset, id, kind, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: experiment %s has non-finite %s %q", ErrMalformedDataset, id, kind, name)
		}
		dst[i] = v
	}
	if len(values) != len(names) {
		for name := range values {
			if !contains(names, name) {
				return fmt.Errorf("%w: experiment %s has unexpected %s %q", ErrMalformedDataset, id, kind, name)
			}
		}
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Value returns the value of a property resolved through the experiment's schema.
func (e *Experiment) Value(p Property) float64 {
	if p.Kind == KindInput {
		return e.inputs[p.Index]
	}
	return e.outputs[p.Index]
}

// ValueOf resolves name and returns its value.
func (e *Experiment) ValueOf(name string) (float64, error) {
	p, err := e.schema.Lookup(name)
	if err != nil {
		return 0, err
	}
	return e.Value(p), nil
}

// Inputs returns the input values in schema order.
func (e *Experiment) Inputs() []NamedValue {
	return named(e.schema.inputs, e.inputs)
}

// Outputs returns the output values in schema order.
func (e *Experiment) Outputs() []NamedValue {
	return named(e.schema.outputs, e.outputs)
}

func named(names []string, values []float64) []NamedValue {
	out := make([]NamedValue, len(names))
	for i, name := range names {
		out[i] = NamedValue{Name: name, Value: values[i]}
	}
	return out
}

// KeyInputs returns the non-zero inputs sorted by value, largest first, cut to
// limit entries. hidden is the number of non-zero inputs left out.
// A limit <= 0 returns every non-zero input.
func (e *Experiment) KeyInputs(limit int) (shown []NamedValue, hidden int) {
	for _, nv := range e.Inputs() {
		if nv.Value > 0 {
			shown = append(shown, nv)
		}
	}
	sort.SliceStable(shown, func(i, j int) bool {
		return shown[i].Value > shown[j].Value
	})
	if limit > 0 && len(shown) > limit {
		hidden = len(shown) - limit
		shown = shown[:limit]
	}
	return shown, hidden
}

// MarshalJSON encodes the experiment as {"inputs": {...}, "outputs": {...}}
// keeping schema key order.
func (e *Experiment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"inputs":`)
	if err := writeObject(&buf, e.schema.inputs, e.inputs); err != nil {
		return nil, err
	}
	buf.WriteString(`,"outputs":`)
	if err := writeObject(&buf, e.schema.outputs, e.outputs); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeObject(buf *bytes.Buffer, names []string, values []float64) error {
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(values[i], 'f', -1, 64))
	}
	buf.WriteByte('}')
	return nil
}

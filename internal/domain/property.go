package domain

import "fmt"

// PropertyKind tells whether a property is a formulation input or a measured output.
type PropertyKind int

const (
	KindInput PropertyKind = iota
	KindOutput
)

func (k PropertyKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
}

// Property is a resolved reference to one numeric attribute of an experiment.
// Index is the position of the property inside its kind's value slice.
type Property struct {
	Name  string
	Kind  PropertyKind
	Index int
}

// Schema is the ordered set of input and output property names shared by
// every experiment of a dataset.
type Schema struct {
	inputs  []string
	outputs []string
	index   map[string]Property
}

// NewSchema builds a schema from ordered input and output names.
// Names must be unique across both kinds and the schema must not be empty.
func NewSchema(inputs, outputs []string) (*Schema, error) {
	if len(inputs)+len(outputs) == 0 {
		return nil, fmt.Errorf("%w: no properties defined", ErrMalformedDataset)
	}

	s := &Schema{
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
		index:   make(map[string]Property, len(inputs)+len(outputs)),
	}

	for i, name := range s.inputs {
		if _, dup := s.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate property %q", ErrMalformedDataset, name)
		}
		s.index[name] = Property{Name: name, Kind: KindInput, Index: i}
	}
	for i, name := range s.outputs {
		if p, dup := s.index[name]; dup {
			return nil, fmt.Errorf("%w: property %q is both %s and output", ErrMalformedDataset, name, p.Kind)
		}
		s.index[name] = Property{Name: name, Kind: KindOutput, Index: i}
	}

	return s, nil
}

// Lookup resolves a property name. Unknown names yield ErrUnknownProperty.
func (s *Schema) Lookup(name string) (Property, error) {
	p, ok := s.index[name]
	if !ok {
		return Property{}, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return p, nil
}

// Has reports whether name is part of the schema.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Inputs returns input property names in dataset order.
func (s *Schema) Inputs() []string {
	return append([]string(nil), s.inputs...)
}

// Outputs returns output property names in dataset order.
func (s *Schema) Outputs() []string {
	return append([]string(nil), s.outputs...)
}

// All returns inputs followed by outputs.
func (s *Schema) All() []string {
	all := make([]string, 0, len(s.inputs)+len(s.outputs))
	all = append(all, s.inputs...)
	return append(all, s.outputs...)
}

// Len returns the total number of properties.
func (s *Schema) Len() int {
	return len(s.inputs) + len(s.outputs)
}

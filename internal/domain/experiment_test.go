package domain

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema([]string{"Polymer 1", "Polymer 2", "Filler", "Oven Temperature"}, []string{"Viscosity"})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func TestNewSchema(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		outputs []string
		wantErr bool
	}{
		{"valid", []string{"a", "b"}, []string{"c"}, false},
		{"outputs only", nil, []string{"c"}, false},
		{"empty", nil, nil, true},
		{"duplicate input", []string{"a", "a"}, []string{"c"}, true},
		{"input and output collide", []string{"a"}, []string{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.inputs, tt.outputs)
			if tt.wantErr != (err != nil) {
				t.Fatalf("NewSchema error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedDataset) {
				t.Errorf("error %v does not wrap ErrMalformedDataset", err)
			}
		})
	}
}

func TestSchema_Lookup(t *testing.T) {
	s := testSchema(t)

	p, err := s.Lookup("Viscosity")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.Kind != KindOutput || p.Index != 0 {
		t.Errorf("Lookup(Viscosity) = %+v", p)
	}

	_, err = s.Lookup("Hardness")
	if !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Lookup(Hardness) error = %v, want ErrUnknownProperty", err)
	}

	want := []string{"Polymer 1", "Polymer 2", "Filler", "Oven Temperature", "Viscosity"}
	if got := s.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestNewExperiment_Validation(t *testing.T) {
	s := testSchema(t)
	inputs := map[string]float64{"Polymer 1": 1, "Polymer 2": 2, "Filler": 0, "Oven Temperature": 400}

	tests := []struct {
		name    string
		inputs  map[string]float64
		outputs map[string]float64
	}{
		{"missing output", inputs, map[string]float64{}},
		{"extra output", inputs, map[string]float64{"Viscosity": 1, "Hardness": 2}},
		{"missing input", map[string]float64{"Polymer 1": 1}, map[string]float64{"Viscosity": 1}},
		{"NaN", inputs, map[string]float64{"Viscosity": math.NaN()}},
		{"Inf", inputs, map[string]float64{"Viscosity": math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExperiment("X", s, tt.inputs, tt.outputs)
			if !errors.Is(err, ErrMalformedDataset) {
				t.Errorf("error = %v, want ErrMalformedDataset", err)
			}
		})
	}
}

func TestExperiment_KeyInputs(t *testing.T) {
	s := testSchema(t)
	e, err := NewExperiment("X", s,
		map[string]float64{"Polymer 1": 10, "Polymer 2": 12, "Filler": 0, "Oven Temperature": 400},
		map[string]float64{"Viscosity": 2500},
	)
	if err != nil {
		t.Fatalf("NewExperiment: %v", err)
	}

	shown, hidden := e.KeyInputs(2)
	want := []NamedValue{{"Oven Temperature", 400}, {"Polymer 2", 12}}
	if !reflect.DeepEqual(shown, want) || hidden != 1 {
		t.Errorf("KeyInputs(2) = %v, %d; want %v, 1", shown, hidden, want)
	}

	all, hidden := e.KeyInputs(0)
	if len(all) != 3 || hidden != 0 {
		t.Errorf("KeyInputs(0) = %v, %d; want 3 non-zero inputs", all, hidden)
	}
}

func TestExperiment_MarshalJSONKeepsOrder(t *testing.T) {
	s := testSchema(t)
	e, err := NewExperiment("X", s,
		map[string]float64{"Polymer 1": 10.5, "Polymer 2": 0, "Filler": 3, "Oven Temperature": 400},
		map[string]float64{"Viscosity": 2316.4},
	)
	if err != nil {
		t.Fatalf("NewExperiment: %v", err)
	}

	got, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"inputs":{"Polymer 1":10.5,"Polymer 2":0,"Filler":3,"Oven Temperature":400},"outputs":{"Viscosity":2316.4}}`
	if string(got) != want {
		t.Errorf("MarshalJSON() =\n%s\nwant\n%s", got, want)
	}
}

func TestNewDataset(t *testing.T) {
	s := testSchema(t)
	other, _ := NewSchema([]string{"a"}, nil)
	in := map[string]float64{"Polymer 1": 1, "Polymer 2": 2, "Filler": 3, "Oven Temperature": 4}
	out := map[string]float64{"Viscosity": 5}

	a, _ := NewExperiment("A", s, in, out)
	b, _ := NewExperiment("B", s, in, out)
	foreign, _ := NewExperiment("C", other, map[string]float64{"a": 1}, nil)

	ds, err := NewDataset(s, []*Experiment{b, a})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if got := ds.IDs(); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("IDs() = %v", got)
	}
	if _, ok := ds.Get("missing"); ok {
		t.Error("Get(missing) reported found")
	}

	for name, exps := range map[string][]*Experiment{
		"empty":          nil,
		"duplicate id":   {a, a},
		"foreign schema": {a, foreign},
	} {
		if _, err := NewDataset(s, exps); !errors.Is(err, ErrMalformedDataset) {
			t.Errorf("%s: error = %v, want ErrMalformedDataset", name, err)
		}
	}
}

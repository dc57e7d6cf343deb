package domain

import "testing"

func TestRange_Include(t *testing.T) {
	tests := []struct {
		name   string
		start  Range
		values []float64
		want   Range
	}{
		{"single value", Range{Min: 5, Max: 5}, nil, Range{Min: 5, Max: 5}},
		{"widens both ends", Range{Min: 5, Max: 5}, []float64{3, 9, 4}, Range{Min: 3, Max: 9}},
		{"negative values", Range{Min: 0, Max: 0}, []float64{-2.5, -1}, Range{Min: -2.5, Max: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.start
			for _, v := range tt.values {
				r.Include(v)
			}
			if r != tt.want {
				t.Errorf("got %+v, want %+v", r, tt.want)
			}
		})
	}
}

func TestRange_ContainsIsInclusive(t *testing.T) {
	r := Range{Min: 400, Max: 425}
	for _, v := range []float64{400, 410, 425} {
		if !r.Contains(v) {
			t.Errorf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{399.9, 425.1} {
		if r.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}
	if got := r.Span(); got != 25 {
		t.Errorf("Span() = %v, want 25", got)
	}
}

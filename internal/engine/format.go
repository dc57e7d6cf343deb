package engine

import (
	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

// FormattedValue is a property value with its display text.
type FormattedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// ExperimentSummary is the display form of one experiment.
type ExperimentSummary struct {
	ID        string           `json:"id"`
	DisplayID string           `json:"display_id"`
	Inputs    []FormattedValue `json:"inputs"`
	Outputs   []FormattedValue `json:"outputs"`
}

// FormatExperiment returns the display record for id: positive inputs and all
// outputs, in schema order. The second result is false for unknown IDs.
func (e *Engine) FormatExperiment(id string) (ExperimentSummary, bool) {
	exp, ok := e.ds.Get(id)
	if !ok {
		return ExperimentSummary{}, false
	}
	return Summarize(exp), true
}

// Summarize formats exp for display.
func Summarize(exp *domain.Experiment) ExperimentSummary {
	s := ExperimentSummary{
		ID:        exp.ID,
		DisplayID: util.DisplayID(exp.ID),
		Inputs:    []FormattedValue{},
	}
	for _, nv := range exp.Inputs() {
		if nv.Value <= 0 {
			continue
		}
		s.Inputs = append(s.Inputs, formatted(nv))
	}
	for _, nv := range exp.Outputs() {
		s.Outputs = append(s.Outputs, formatted(nv))
	}
	return s
}

func formatted(nv domain.NamedValue) FormattedValue {
	return FormattedValue{
		Name:  nv.Name,
		Value: nv.Value,
		Text:  util.FormatValue(nv.Name, nv.Value),
	}
}

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
)

func TestFormatExperiment(t *testing.T) {
	e := sampleEngine(t)

	s, ok := e.FormatExperiment("20170104_EXP_56")
	require.True(t, ok)
	assert.Equal(t, "104_EXP_56", s.DisplayID)

	names := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		names[i] = in.Name
	}
	assert.Equal(t, []string{
		"Polymer 1", "Polymer 2", "Polymer 4", "Silica Filler 1", "Silica Filler 2",
		"Plasticizer 1", "Coloring Pigment", "Co-Agent 2", "Co-Agent 3", "Curing Agent 1",
		"Oven Temperature",
	}, names)
	assert.Equal(t, "425.0", s.Inputs[len(s.Inputs)-1].Text)

	want := []engine.FormattedValue{
		{Name: "Viscosity", Value: 2316.4, Text: "2316.4"},
		{Name: "Cure Time", Value: 3.18, Text: "3.18"},
		{Name: "Elongation", Value: 99.9, Text: "99.9"},
		{Name: "Tensile Strength", Value: 13.7, Text: "13.7"},
		{Name: "Compression Set", Value: 62.4, Text: "62.4"},
	}
	assert.Equal(t, want, s.Outputs)

	_, ok = e.FormatExperiment("unknown")
	assert.False(t, ok)
}

package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/polymer-explorer/internal/dataset"
	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
)

func sampleEngine(t *testing.T) *engine.Engine {
	t.Helper()
	ds, err := dataset.Sample()
	require.NoError(t, err)
	return engine.New(ds)
}

func engineFromJSON(t *testing.T, js string) *engine.Engine {
	t.Helper()
	ds, err := dataset.Decode(strings.NewReader(js))
	require.NoError(t, err)
	return engine.New(ds)
}

// firstTwo holds the first two records of the bundled sample.
const firstTwo = `{
  "20170102_EXP_56": {"inputs": {"Oven Temperature": 375.0, "Polymer 1": 11.2}, "outputs": {"Viscosity": 2554.4}},
  "20170104_EXP_56": {"inputs": {"Oven Temperature": 425.0, "Polymer 1": 10.9}, "outputs": {"Viscosity": 2316.4}}
}`

// smallSet has a constant column ("Pigment") and a perfectly linear pair.
const smallSet = `{
  "E1": {"inputs": {"A": 1, "B": 2, "Pigment": 0.1}, "outputs": {"Out": 10}},
  "E2": {"inputs": {"A": 2, "B": 4, "Pigment": 0.1}, "outputs": {"Out": 7}},
  "E3": {"inputs": {"A": 3, "B": 6, "Pigment": 0.1}, "outputs": {"Out": 4}},
  "E4": {"inputs": {"A": 4, "B": 8, "Pigment": 0.1}, "outputs": {"Out": 1}}
}`

func valueOf(t *testing.T, e *domain.Experiment, name string) float64 {
	t.Helper()
	v, err := e.ValueOf(name)
	require.NoError(t, err)
	return v
}

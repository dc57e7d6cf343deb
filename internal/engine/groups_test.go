package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
)

func TestGroupByRanges_Viscosity(t *testing.T) {
	e := sampleEngine(t)

	groups, err := e.GroupByRanges("Viscosity", []float64{2000, 2400, 2800, 3200})
	require.NoError(t, err)

	require.Len(t, groups.Groups, 3)
	assert.Equal(t, "2000-2400", groups.Groups[0].Label)
	assert.Equal(t, "2400-2800", groups.Groups[1].Label)
	assert.Equal(t, "2800-3200", groups.Groups[2].Label)

	assert.Len(t, groups.Groups[0].IDs, 10)
	assert.Len(t, groups.Groups[1].IDs, 12)
	assert.Equal(t, []string{"20170108_EXP_38"}, groups.Groups[2].IDs)
	assert.Equal(t, "20170104_EXP_56", groups.Groups[0].IDs[0])

	// 3260.8 and 3561.2 are above the last boundary.
	assert.Equal(t, 23, groups.Total())
}

func TestGroupByRanges_HalfOpenBuckets(t *testing.T) {
	e := engineFromJSON(t, smallSet)

	groups, err := e.GroupByRanges("A", []float64{1, 2, 4})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"1-2": {"E1"},
		"2-4": {"E2", "E3"},
	}, groups.ByLabel())
}

func TestGroupByRanges_Labels(t *testing.T) {
	e := engineFromJSON(t, smallSet)

	groups, err := e.GroupByRanges("Pigment", []float64{0, 0.05, 0.15, 2.5, 3})
	require.NoError(t, err)

	labels := make([]string, len(groups.Groups))
	for i, g := range groups.Groups {
		labels[i] = g.Label
	}
	assert.Equal(t, []string{"0-0.05", "0.05-0.15", "0.15-2.5", "2.5-3"}, labels)
	assert.Equal(t, []string{"E1", "E2", "E3", "E4"}, groups.Groups[1].IDs)
	assert.Empty(t, groups.Groups[0].IDs)
	assert.NotNil(t, groups.Groups[0].IDs)
}

func TestGroupByRanges_TooFewBoundaries(t *testing.T) {
	e := engineFromJSON(t, smallSet)

	for _, b := range [][]float64{nil, {1}} {
		groups, err := e.GroupByRanges("A", b)
		require.NoError(t, err)
		assert.Empty(t, groups.Groups)
		assert.Empty(t, groups.ByLabel())
	}
}

func TestGroupByRanges_UnknownProperty(t *testing.T) {
	e := engineFromJSON(t, smallSet)

	_, err := e.GroupByRanges("Z", []float64{0, 1})
	assert.ErrorIs(t, err, domain.ErrUnknownProperty)
}

func TestEvenBoundaries(t *testing.T) {
	b := engine.EvenBoundaries(domain.Range{Min: 0, Max: 10}, 4)
	require.Len(t, b, 5)
	assert.Equal(t, []float64{0, 2.5, 5, 7.5}, b[:4])
	assert.Greater(t, b[4], 10.0)

	assert.Nil(t, engine.EvenBoundaries(domain.Range{Min: 0, Max: 10}, 0))

	e := sampleEngine(t)
	stats := e.ComputeStats()
	groups, err := e.GroupByRanges("Oven Temperature", engine.EvenBoundaries(stats["Oven Temperature"], 4))
	require.NoError(t, err)
	assert.Equal(t, 25, groups.Total())
}

func TestGroupByRanges_FirstMatchingBucketWins(t *testing.T) {
	e := engineFromJSON(t, smallSet)

	tests := []struct {
		name       string
		boundaries []float64
		want       [][]string
	}{
		{"unsorted", []float64{1, 4, 2, 5}, [][]string{{"E1", "E2", "E3"}, {}, {"E4"}}},
		{"repeated", []float64{1, 3, 1, 3}, [][]string{{"E1", "E2"}, {}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := e.GroupByRanges("A", tt.boundaries)
			require.NoError(t, err)
			require.Len(t, groups.Groups, len(tt.want))
			for i, g := range groups.Groups {
				assert.Equal(t, tt.want[i], g.IDs, "bucket %s", g.Label)
			}
			assert.LessOrEqual(t, groups.Total(), 4)
		})
	}

	groups, err := e.GroupByRanges("A", []float64{1, 3, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E2"}, groups.ByLabel()["1-3"])
}

func TestEvenBoundaries_Limit(t *testing.T) {
	r := domain.Range{Min: 0, Max: 1}
	assert.Len(t, engine.EvenBoundaries(r, engine.MaxBuckets), engine.MaxBuckets+1)
	assert.Nil(t, engine.EvenBoundaries(r, engine.MaxBuckets+1))
}

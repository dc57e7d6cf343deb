package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	ds, err := Sample()
	require.NoError(t, err)

	assert.Equal(t, 25, ds.Len())
	assert.Len(t, ds.Schema().Inputs(), 19)
	assert.Equal(t, []string{"Viscosity", "Cure Time", "Elongation", "Tensile Strength", "Compression Set"}, ds.Schema().Outputs())
	assert.Equal(t, "20170102_EXP_56", ds.At(0).ID)
	assert.Equal(t, "20170117_EXP_91", ds.At(ds.Len()-1).ID)

	again, err := Sample()
	require.NoError(t, err)
	assert.Same(t, ds, again)
}

func TestSample_EncodeMatchesBundledFile(t *testing.T) {
	ds, err := Sample()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ds))

	reloaded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds.IDs(), reloaded.IDs())

	for _, id := range ds.IDs() {
		want, _ := ds.Get(id)
		got, _ := reloaded.Get(id)
		assert.Equal(t, want.Inputs(), got.Inputs(), id)
		assert.Equal(t, want.Outputs(), got.Outputs(), id)
	}
}

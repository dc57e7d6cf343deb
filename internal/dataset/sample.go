package dataset

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

//go:embed sample.json
var sampleJSON []byte

var loadSample = sync.OnceValues(func() (*domain.Dataset, error) {
	return Decode(bytes.NewReader(sampleJSON))
})

// Sample returns the bundled 25-experiment dataset. It is decoded once and
// shared; the dataset is read-only.
func Sample() (*domain.Dataset, error) {
	return loadSample()
}

// SampleJSON returns a copy of the raw bundled dataset.
func SampleJSON() []byte {
	return append([]byte(nil), sampleJSON...)
}

package dataset

import (
	"bytes"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

// Fingerprint returns a hex xxhash of the dataset's canonical encoding.
// Two datasets with the same experiments, order and values share a fingerprint.
func Fingerprint(ds *domain.Dataset) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(buf.Bytes()), 16), nil
}

package domain

import "errors"

var (
	// ErrUnknownProperty is returned when a property name is not part of the dataset schema.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrMalformedDataset is returned when a dataset violates the uniform schema invariant.
	ErrMalformedDataset = errors.New("malformed dataset")

	// ErrInvalidFilter is returned for unparsable or inverted filter ranges.
	ErrInvalidFilter = errors.New("invalid filter")
)

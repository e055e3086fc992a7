package documents

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput is returned for malformed documents or identifiers.
	ErrInvalidInput = errors.New("invalid document input")
)

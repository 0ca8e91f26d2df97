package search

import "errors"

// Sentinel failure kinds. The core performs no I/O and has no retries,
// so every error is reported synchronously to the immediate caller.
var (
	// ErrInvalidQuery means regex compilation failed.
	ErrInvalidQuery = errors.New("search: invalid query")

	// ErrNoDocument means an operation other than setting the document
	// was attempted on a cursor that has none.
	ErrNoDocument = errors.New("search: no document set")
)

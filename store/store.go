package store

import "errors"

// Sentinel errors shared by the Mongo stores and checked by the pipeline and
// API layers.
var (
	// ErrNotFound reports a lookup for a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate reports an insert rejected by the (title, source) unique
	// index. The pipeline treats it as the duplicate signal, not a failure.
	ErrDuplicate = errors.New("duplicate record")
)

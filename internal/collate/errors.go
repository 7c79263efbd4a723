package collate

import "errors"

// Outcomes of Collate that are not failures.
var (
	// ErrNoSourceScope indicates no region of the selection is in a
	// source scope.
	ErrNoSourceScope = errors.New("no source scope in selection")

	// ErrEmptySelection indicates every matched region was blank.
	ErrEmptySelection = errors.New("selection is empty after filtering")
)

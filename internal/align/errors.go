package align

import "errors"

var (
	// ErrEmptyInput is returned when a text is empty after trimming.
	// It is distinct from a valid empty alignment (zero tokens).
	ErrEmptyInput = errors.New("source or target text is empty")

	// ErrEmptySequence is returned when an embedding sequence has no vectors.
	ErrEmptySequence = errors.New("embedding sequence is empty")

	// ErrDimensionMismatch is returned when vectors disagree on dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimensionality mismatch")

	// ErrInvalidStrategy is returned for an unrecognized strategy name.
	ErrInvalidStrategy = errors.New("invalid alignment strategy")

	// ErrOrphanToken indicates an extracted token index with no owning
	// word. It is an internal invariant failure, never a caller error.
	ErrOrphanToken = errors.New("token has no owning word")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStaleState means a conditional status write matched no document
	// because the stored status moved on.
	ErrStaleState = errors.New("booking status changed concurrently")
)

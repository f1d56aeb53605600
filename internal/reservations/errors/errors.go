package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrStatusMismatch is returned by a compare-and-set whose expected status no longer holds.
	ErrStatusMismatch = errors.New("reservation status changed concurrently")

	ErrLockTimeout = errors.New("timed out waiting for facility lock")
)

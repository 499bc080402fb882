package domain

import "errors"

var (
	// ErrInvalidInput marks malformed submissions. Rejected synchronously at
	// the API boundary; never reaches the scoring pipeline.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by stores for unknown report IDs.
	ErrNotFound = errors.New("report not found")

	// ErrClassificationFailed wraps any transport, status, or payload problem
	// from the external classifier. The scoring engine recovers from it by
	// awarding zero classification points.
	ErrClassificationFailed = errors.New("classification failed")

	// ErrStatusConflict is returned when a conditional store write is refused
	// because the report already left the pending state.
	ErrStatusConflict = errors.New("report status changed concurrently")
)

package ingest

import "errors"

var (
	// ErrSourceUnavailable aborts a load; callers fall back to the sample batch.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrInsufficientResponses marks a questionnaire with too few answers.
	ErrInsufficientResponses = errors.New("insufficient responses")
	// ErrIncompleteJoin marks a subject missing from a behavioral table.
	ErrIncompleteJoin = errors.New("incomplete join")
	// ErrMalformedRow marks a row or header that fails type checks.
	ErrMalformedRow = errors.New("malformed row")
)

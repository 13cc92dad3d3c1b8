package service

import (
	"errors"
	"fmt"
)

var (
	// ErrOperationInFlight rejects a duplicate trigger of an operation kind
	// while one is still running for the session.
	ErrOperationInFlight = errors.New("operation already in progress for this session")

	ErrUnknownPerson = errors.New("unknown person identifier")
	ErrUnknownField  = errors.New("unknown field name")

	// ErrEmptyImagePrompt and ErrEmptyQuery are the two empty-input cases
	// that surface to the user; empty chat input is a silent no-op instead.
	ErrEmptyImagePrompt = errors.New("Please provide an image prompt.")
	ErrEmptyQuery       = errors.New("Please enter a query for low-latency response.")
)

// ValidationError blocks an analysis submit: per-field messages for both
// persons plus the aggregate notice.
type ValidationError struct {
	Notice  string
	ErrorsA map[string]string
	ErrorsB map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d + %d field errors", len(e.ErrorsA), len(e.ErrorsB))
}

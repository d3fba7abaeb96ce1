package candidate

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is wrapped by every input validation failure.
	ErrMalformedInput = errors.New("malformed input")
	// ErrMissingAnalysis is returned when no semantic analysis was supplied.
	// Technical match and experience depth cannot be computed without it.
	ErrMissingAnalysis = fmt.Errorf("%w: semantic analysis is required", ErrMalformedInput)
)

// InputError names the field and value that failed validation.
type InputError struct {
	Field string
	Value any
	Rule  string
}

func (e *InputError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("malformed input: %s has invalid value %v", e.Field, e.Value)
	}
	return fmt.Sprintf("malformed input: %s has invalid value %v (%s)", e.Field, e.Value, e.Rule)
}

func (e *InputError) Unwrap() error {
	return ErrMalformedInput
}

package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a caller bug: an out-of-range or unknown value passed
// across the engine boundary. Inputs of this kind are rejected, never clamped.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes which input was rejected and why.
type InvalidInputError struct {
	Field  string
	Value  any
	Reason string
}

// Invalid builds an InvalidInputError.
func Invalid(field string, value any, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// IsInvalidInput reports whether err is, or wraps, an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

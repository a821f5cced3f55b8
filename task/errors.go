package task

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMalformedJSON indicates input that is not a JSON object (or, for
	// bulk decoding, not an array of objects).
	ErrMalformedJSON = errors.New("malformed task json")

	// ErrAnnotationIndex indicates a positional annotation operation
	// outside the current annotation sequence.
	ErrAnnotationIndex = errors.New("annotation index out of range")
)

// MissingFieldError reports a required field absent from decoded input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidFieldError reports a fixed-schema field whose value could not be
// converted to its typed form.
type InvalidFieldError struct {
	Field string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %v", e.Field, e.Err)
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Err
}

// MissingRequiredError reports a required field the builder was never given.
type MissingRequiredError struct {
	Field string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("builder: required field %q not set", e.Field)
}

// InvariantError reports builder input that would violate a Task invariant,
// such as a UDA named after a fixed-schema field.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "builder: " + e.Reason
}

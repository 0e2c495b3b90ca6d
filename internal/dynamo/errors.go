package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and engine operations.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownEndReason indicates an end reason name that does not parse.
	ErrUnknownEndReason = errors.New("dynamo: unknown end reason")
)

// ParamError wraps a bounds violation with the offending field.
type ParamError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

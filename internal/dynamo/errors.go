package dynamo

import "errors"

// Domain errors for simulation setup.
var (
	// ErrInvalidIntent indicates a steer or throttle value outside {-1, 0, 1}.
	ErrInvalidIntent = errors.New("dynamo: intent out of range")

	// ErrUnknownParam indicates a Configurable was asked for a parameter it lacks.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// TickError wraps an error with the tick it happened on.
type TickError struct {
	Tick    int
	State   State
	Wrapped error
}

func (e *TickError) Error() string {
	return e.Wrapped.Error()
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}

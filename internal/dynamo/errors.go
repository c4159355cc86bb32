package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration rejected at construction.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnstable indicates particle state diverged (NaN or Inf detected).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrCanceled indicates the run was interrupted between frames.
	ErrCanceled = errors.New("dynamo: simulation canceled by context")
)

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SimulationError wraps an error with the frame it happened at.
type SimulationError struct {
	Frame   int
	Time    float64
	Slot    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) slot %d: %v", e.Frame, e.Time, e.Slot, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

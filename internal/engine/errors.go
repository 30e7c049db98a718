package engine

import (
	"errors"
	"fmt"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// ActivationError records one isolated actor failure.
type ActivationError struct {
	// Tick is the tick in which the activation failed.
	Tick int64

	// Entity is the failing actor.
	Entity ir.EntityID

	// Err is the returned error, or the recovered panic value.
	Err error

	// Panicked is true when Err was recovered from a panic.
	Panicked bool
}

// Error implements the error interface.
func (e *ActivationError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("activation of %s panicked at tick %d: %v", e.Entity, e.Tick, e.Err)
	}
	return fmt.Sprintf("activation of %s failed at tick %d: %v", e.Entity, e.Tick, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActivationError) Unwrap() error {
	return e.Err
}

// StateError is returned for a control operation that is invalid in the
// current state, such as Resume while running.
type StateError struct {
	From State
	Op   string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s scheduler in state %s", e.Op, e.From)
}

// IsActivationError returns true if err is or wraps an ActivationError.
func IsActivationError(err error) bool {
	var ae *ActivationError
	return errors.As(err, &ae)
}

// IsStateError returns true if err is or wraps a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

package bus

import (
	"errors"
	"fmt"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// InvalidMessageKindError is returned when a kind outside the bus's fixed
// enumeration is published.
type InvalidMessageKindError struct {
	Kind ir.MessageKind
}

// Error implements the error interface.
func (e *InvalidMessageKindError) Error() string {
	return fmt.Sprintf("invalid message kind %q", e.Kind)
}

// IsInvalidMessageKind returns true if err is or wraps an InvalidMessageKindError.
func IsInvalidMessageKind(err error) bool {
	var ke *InvalidMessageKindError
	return errors.As(err, &ke)
}

package facts

import (
	"errors"
	"fmt"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// TypeMismatchError is returned when a caller's expected type disagrees
// with the stored or declared type.
type TypeMismatchError struct {
	Entity    ir.EntityID
	Attribute string
	Expected  ir.AttrType
	Actual    ir.AttrType
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on %s.%s: expected %s, got %s", e.Entity, e.Attribute, e.Expected, e.Actual)
}

// UnknownAttributeError is returned for attributes missing from the schema.
type UnknownAttributeError struct {
	Type      ir.EntityType
	Attribute string
}

// Error implements the error interface.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("attribute %q is not declared for %s", e.Attribute, e.Type)
}

// UnknownEntityError is returned when an entity id was never registered.
type UnknownEntityError struct {
	Entity ir.EntityID
}

// Error implements the error interface.
func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.Entity)
}

// DuplicateEntityError is returned when an entity id is registered twice.
type DuplicateEntityError struct {
	Entity ir.EntityID
}

// Error implements the error interface.
func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %q already exists", e.Entity)
}

// IsTypeMismatch returns true if err is or wraps a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var te *TypeMismatchError
	return errors.As(err, &te)
}

// IsUnknownAttribute returns true if err is or wraps an UnknownAttributeError.
func IsUnknownAttribute(err error) bool {
	var ue *UnknownAttributeError
	return errors.As(err, &ue)
}

// IsUnknownEntity returns true if err is or wraps an UnknownEntityError.
func IsUnknownEntity(err error) bool {
	var ue *UnknownEntityError
	return errors.As(err, &ue)
}

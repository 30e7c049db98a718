package rules

import (
	"errors"
	"fmt"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// WiringErrorCode categorizes rule set wiring errors.
type WiringErrorCode string

const (
	// ErrCodeMissingDependency indicates a Tier 2 rule requires a label
	// that no Tier 1 rule produces.
	ErrCodeMissingDependency WiringErrorCode = "MISSING_DEPENDENCY"

	// ErrCodeDuplicateRule indicates two rules share a name.
	ErrCodeDuplicateRule WiringErrorCode = "DUPLICATE_RULE"

	// ErrCodeInvalidRule indicates a malformed rule definition.
	ErrCodeInvalidRule WiringErrorCode = "INVALID_RULE"
)

// WiringError is a rule set defect detected at engine construction.
type WiringError struct {
	Code    WiringErrorCode
	Rule    string
	Missing ir.Label
	Message string
}

// Error implements the error interface.
func (e *WiringError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("%s: rule %q requires label %q: %s", e.Code, e.Rule, e.Missing, e.Message)
	}
	return fmt.Sprintf("%s: rule %q: %s", e.Code, e.Rule, e.Message)
}

// IsWiringError returns true if err is or wraps a WiringError.
func IsWiringError(err error) bool {
	var we *WiringError
	return errors.As(err, &we)
}

// IsMissingDependency returns true if err contains a missing dependency,
// including inside a joined error.
func IsMissingDependency(err error) bool {
	for _, we := range WiringErrors(err) {
		if we.Code == ErrCodeMissingDependency {
			return true
		}
	}
	return false
}

// WiringErrors flattens err into the WiringErrors it carries.
func WiringErrors(err error) []*WiringError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WiringError); ok {
		return []*WiringError{we}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		var out []*WiringError
		for _, e := range u.Unwrap() {
			out = append(out, WiringErrors(e)...)
		}
		return out
	case interface{ Unwrap() error }:
		return WiringErrors(u.Unwrap())
	}
	return nil
}

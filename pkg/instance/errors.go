// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnsupportedKind is the sentinel wrapped by UnsupportedKindError.
	ErrUnsupportedKind = errors.New("unsupported node kind")

	// ErrPropertyAssignment is the sentinel wrapped by PropertyAssignmentError.
	ErrPropertyAssignment = errors.New("invalid property assignment")

	// ErrInvalidKindSpec is the sentinel wrapped by InvalidKindSpecError.
	ErrInvalidKindSpec = errors.New("invalid kind spec")

	// ErrParentCycle is returned when parenting would make a node its own ancestor.
	ErrParentCycle = errors.New("node cannot be parented to itself or a descendant")
)

type (
	// UnsupportedKindError is returned by the factory for unknown or abstract kinds.
	UnsupportedKindError struct {
		Kind Kind
		// Abstract is true when the kind exists but cannot be created directly.
		Abstract bool
	}

	// PropertyAssignmentError is returned when a property name is unknown for a
	// node's kind, or its value does not fit the declared type or constraints.
	PropertyAssignmentError struct {
		Kind     Kind
		Property string
		Value    cty.Value
		Reason   string
	}

	// InvalidKindSpecError is returned by Registry.Register for malformed specs.
	InvalidKindSpecError struct {
		Kind   Kind
		Reason string
	}
)

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	if e.Abstract {
		return fmt.Sprintf("unsupported node kind %q: kind is abstract", e.Kind)
	}
	return fmt.Sprintf("unsupported node kind %q", e.Kind)
}

// Unwrap returns ErrUnsupportedKind for errors.Is() compatibility.
func (e *UnsupportedKindError) Unwrap() error { return ErrUnsupportedKind }

// Error implements the error interface.
func (e *PropertyAssignmentError) Error() string {
	return fmt.Sprintf("cannot set %s.%s: %s", e.Kind, e.Property, e.Reason)
}

// Unwrap returns ErrPropertyAssignment for errors.Is() compatibility.
func (e *PropertyAssignmentError) Unwrap() error { return ErrPropertyAssignment }

// Error implements the error interface.
func (e *InvalidKindSpecError) Error() string {
	return fmt.Sprintf("invalid kind %q: %s", e.Kind, e.Reason)
}

// Unwrap returns ErrInvalidKindSpec for errors.Is() compatibility.
func (e *InvalidKindSpecError) Unwrap() error { return ErrInvalidKindSpec }

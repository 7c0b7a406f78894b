// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is the sentinel wrapped by ParseError.
	ErrParse = errors.New("metadata is not valid JSON")

	// ErrSchema is the sentinel wrapped by SchemaError.
	ErrSchema = errors.New("metadata has an invalid shape")
)

type (
	// ParseError is returned when a metadata file is not valid JSON.
	ParseError struct {
		Path  string
		Cause error
	}

	// SchemaError is returned when a metadata file is valid JSON but does not
	// match the metadata schema.
	SchemaError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse metadata %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Cause} }

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid metadata %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrSchema and the underlying cause.
func (e *SchemaError) Unwrap() []error { return []error{ErrSchema, e.Cause} }

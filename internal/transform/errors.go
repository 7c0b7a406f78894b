// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
)

// ErrDataFile is the sentinel wrapped by DataFileError.
var ErrDataFile = errors.New("invalid data file")

// DataFileError is returned when a JSON, TOML or YAML file cannot be decoded
// or holds a value that has no Lua representation.
type DataFileError struct {
	Path   string
	Format string
	Cause  error
}

// Error implements the error interface.
func (e *DataFileError) Error() string {
	return fmt.Sprintf("decode %s file %s: %v", e.Format, e.Path, e.Cause)
}

// Unwrap returns ErrDataFile and the underlying decoder error.
func (e *DataFileError) Unwrap() []error { return []error{ErrDataFile, e.Cause} }

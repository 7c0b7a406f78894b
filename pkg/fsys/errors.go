// SPDX-License-Identifier: MPL-2.0

package fsys

import (
	"errors"
	"fmt"
)

// ErrFilesystem is the sentinel wrapped by every FilesystemError.
var ErrFilesystem = errors.New("filesystem error")

// FilesystemError is returned when an entry disappears or becomes unreadable
// between enumeration and read. Both ErrFilesystem and the underlying cause
// are reachable through errors.Is and errors.As.
type FilesystemError struct {
	// Op is the operation that failed ("list", "read", "stat").
	Op string
	// Path is the entry the operation targeted.
	Path string
	// Cause is the error reported by the backing filesystem.
	Cause error
}

// Error implements the error interface.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns both the sentinel and the cause.
func (e *FilesystemError) Unwrap() []error {
	return []error{ErrFilesystem, e.Cause}
}

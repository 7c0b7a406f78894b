// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrSyntax is the sentinel wrapped by SyntaxError.
	ErrSyntax = errors.New("syntax error")

	// ErrValidation is the sentinel wrapped by ValidationError.
	ErrValidation = errors.New("schema validation failed")

	// ErrFileTooLarge is the sentinel wrapped by FileSizeError.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// Issue is one schema violation.
	Issue struct {
		// Path is the JSON path to the invalid value (e.g., "properties.Size").
		Path string
		// Message is the CUE message with any redundant path prefix removed.
		Message string
	}

	// SyntaxError is returned when the input cannot be parsed at all.
	SyntaxError struct {
		FilePath string
		Cause    error
	}

	// ValidationError is returned when parsed input does not satisfy the schema.
	ValidationError struct {
		FilePath string
		Issues   []Issue
	}

	// FileSizeError is returned when input exceeds the parse size limit.
	FileSizeError struct {
		FilePath string
		Size     int64
		Limit    int64
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Cause)
}

// Unwrap returns ErrSyntax and the underlying parser error.
func (e *SyntaxError) Unwrap() []error { return []error{ErrSyntax, e.Cause} }

// Error implements the error interface.
// Error format: <file-path>: <json-path>: <message>, one line per issue.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			lines = append(lines, issue.Path+": "+issue.Message)
		} else {
			lines = append(lines, issue.Message)
		}
	}
	switch len(lines) {
	case 0:
		return e.FilePath + ": validation failed"
	case 1:
		return e.FilePath + ": " + lines[0]
	default:
		return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
	}
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Error implements the error interface.
func (e *FileSizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.FilePath, e.Size, e.Limit)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileSizeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts a CUE error into a ValidationError with JSON-path
// prefixed issues.
//
// Examples:
//   - init.meta.json: properties.Size: conflicting values 3 and {...}
//   - config.cue: log.level: 3 errors in empty disjunction
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return &ValidationError{FilePath: filePath, Issues: []Issue{{Message: err.Error()}}}
	}

	issues := make([]Issue, 0, len(cueErrs))
	for _, e := range cueErrs {
		cuePath := cueerrors.Path(e)
		path := formatPath(dropDefinition(cuePath))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself
		for _, prefix := range []string{formatPath(cuePath), path} {
			if prefix != "" && strings.HasPrefix(msg, prefix) {
				msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, prefix), ":"))
				break
			}
		}
		issues = append(issues, Issue{Path: path, Message: msg})
	}
	return &ValidationError{FilePath: filePath, Issues: issues}
}

// formatPath converts a CUE error path such as ["ignore", "0"] to JSON-path
// notation ("ignore[0]").
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

// dropDefinition removes the leading schema definition label ("#Config")
// so paths read as they appear in the user's file.
func dropDefinition(path []string) []string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		return path[1:]
	}
	return path
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileSizeError when data exceeds maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return &FileSizeError{FilePath: filename, Size: int64(len(data)), Limit: maxSize}
	}
	return nil
}

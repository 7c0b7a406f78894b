// SPDX-License-Identifier: MPL-2.0

package reconcile

import "errors"

var (
	// ErrEmptyInit is returned when a script init file produced no node.
	ErrEmptyInit = errors.New("script init file produced no node")

	// ErrInvalidIgnore is returned by New for malformed ignore patterns.
	ErrInvalidIgnore = errors.New("invalid ignore pattern")
)

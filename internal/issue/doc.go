// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries an operation, a resource and remediation hints.
// Issue cards are Markdown explanations rendered with glamour; Classify picks
// the card that explains a build or configuration error.
package issue

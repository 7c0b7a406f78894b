// SPDX-License-Identifier: MPL-2.0

// Package project ties a directory to a reconciliation session: it allocates
// a scope from the registry, reconciles the directory and binds virtual
// environments for the script nodes of the result.
package project

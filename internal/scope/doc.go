// SPDX-License-Identifier: MPL-2.0

// Package scope holds the process-wide registry of reconciliation scopes and
// the virtual environments bound to script nodes within them.
//
// A scope is an integer allocated from a monotonically increasing counter; it
// tags one reconciliation session. Environments are keyed by scope and the
// origin-relative path of the script node they belong to. The registry is
// created on first access through Global and is never replaced afterwards, so
// a host that keeps it across reloads sees every environment it created.
package scope

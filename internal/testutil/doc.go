// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests: filesystem fixtures on afero,
// environment variable management (MustSetenv, MustUnsetenv, SetHomeDir) and
// a manually driven clock.
package testutil

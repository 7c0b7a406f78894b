// SPDX-License-Identifier: MPL-2.0

package scope

import "sync/atomic"

var global atomic.Pointer[Registry]

// Global returns the process-wide registry, creating it on first access.
// Later calls return the same instance with its counter and environments intact.
func Global() *Registry {
	if r := global.Load(); r != nil {
		return r
	}
	global.CompareAndSwap(nil, NewRegistry())
	return global.Load()
}

// Install makes r the process-wide registry if none exists yet and returns the
// registry actually in place. An existing registry is never replaced, so a
// host handing back a retained registry after a reload gets either its own
// instance or the one created in the meantime.
func Install(r *Registry) *Registry {
	if r == nil {
		return Global()
	}
	global.CompareAndSwap(nil, r)
	return global.Load()
}

// ResetForTesting clears the process-wide registry so the next Global call
// creates a fresh one. It must only be used by tests.
func ResetForTesting() {
	global.Store(nil)
}

// SPDX-License-Identifier: MPL-2.0

package scope

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/treesync/treesync/pkg/instance"
)

type (
	// ID identifies one reconciliation session.
	ID uint64

	// EnvironmentKey identifies a script node within a scope.
	EnvironmentKey struct {
		Scope ID
		// Path is the origin-relative, slash-separated source path of the script.
		Path string
	}

	// VirtualEnvironment is the execution context of one script node in one
	// scope. The registry stores it; nothing in this module executes it.
	VirtualEnvironment struct {
		ID        uuid.UUID
		Key       EnvironmentKey
		Script    *instance.Node
		Path      string
		Root      string
		Globals   map[string]any
		CreatedAt time.Time
	}

	// Clock supplies creation timestamps.
	Clock interface {
		Now() time.Time
	}

	// Option configures a Registry.
	Option func(*Registry)

	// Registry tracks the scope counter and the environments bound so far.
	// Its methods are safe for concurrent use; it does not serialize the
	// reconciliations that use it.
	Registry struct {
		mu           sync.RWMutex
		currentScope ID
		environments *btree.Map[string, *VirtualEnvironment]
		clock        Clock
	}

	realClock struct{}
)

func (realClock) Now() time.Time { return time.Now() }

// String returns the decimal scope id.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// String returns "<scope>:<path>".
func (k EnvironmentKey) String() string { return fmt.Sprintf("%d:%s", k.Scope, k.Path) }

// WithClock sets the clock used for VirtualEnvironment.CreatedAt.
func WithClock(c Clock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

// NewRegistry returns an empty registry whose counter starts at 0.
// Most callers want Global instead.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		environments: btree.NewMap[string, *VirtualEnvironment](0),
		clock:        realClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// mapKey orders environments by scope, then path.
func (k EnvironmentKey) mapKey() string {
	return scopePrefix(k.Scope) + k.Path
}

func scopePrefix(id ID) string {
	return fmt.Sprintf("%020d\x00", uint64(id))
}

// CurrentScope returns the id the next Allocate call will return.
func (r *Registry) CurrentScope() ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentScope
}

// Allocate returns a new scope id. Ids are never reused.
func (r *Registry) Allocate() ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.currentScope
	r.currentScope++
	return id
}

// Environment returns the environment bound to key, if any.
func (r *Registry) Environment(key EnvironmentKey) (*VirtualEnvironment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.environments.Get(key.mapKey())
}

// Bind returns the environment bound to key, calling create to make one when
// there is none. The boolean reports whether an existing environment was
// returned. create runs with the registry locked and must not call back into it.
func (r *Registry) Bind(key EnvironmentKey, create func() *VirtualEnvironment) (*VirtualEnvironment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if env, ok := r.environments.Get(key.mapKey()); ok {
		return env, true
	}

	env := create()
	if env == nil {
		env = &VirtualEnvironment{}
	}
	env.Key = key
	if env.ID == uuid.Nil {
		env.ID = uuid.New()
	}
	if env.CreatedAt.IsZero() {
		env.CreatedAt = r.clock.Now()
	}
	if env.Globals == nil {
		env.Globals = map[string]any{}
	}
	r.environments.Set(key.mapKey(), env)
	return env, false
}

// Environments returns a snapshot of all environments ordered by scope, then path.
func (r *Registry) Environments() []*VirtualEnvironment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	envs := make([]*VirtualEnvironment, 0, r.environments.Len())
	r.environments.Scan(func(_ string, env *VirtualEnvironment) bool {
		envs = append(envs, env)
		return true
	})
	return envs
}

// Len returns the number of bound environments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.environments.Len()
}

// ReleaseScope removes every environment of scope id and returns how many
// were removed. Reconciliation never calls it; eviction is left to callers.
func (r *Registry) ReleaseScope(id ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var doomed []string
	r.environments.Ascend(scopePrefix(id), func(k string, env *VirtualEnvironment) bool {
		if env.Key.Scope != id {
			return false
		}
		doomed = append(doomed, k)
		return true
	})
	for _, k := range doomed {
		r.environments.Delete(k)
	}
	return len(doomed)
}

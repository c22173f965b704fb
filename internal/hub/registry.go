// Package hub, presence registry.
//
// The registry is the single source of truth for which identities are
// reachable right now. It keeps a forward index (identity → conn) and a
// reverse index (conn → identity) updated inside the same critical section, so
// Resolve and ReverseResolve are always mutually consistent at every
// observation point.
package hub

import (
	"sort"
	"sync"
)

// Registry is the bidirectional identity ↔ connection mapping. At most one
// connection is bound per identity; a re-attach replaces the prior binding.
// Safe for concurrent use. The identity set is expected to be tiny (two in the
// nominal deployment) but nothing here assumes that.
type Registry struct {
	mu         sync.RWMutex
	conns      map[string]Conn // forward: identity → connection
	identities map[Conn]string // reverse: connection → identity
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:      make(map[string]Conn),
		identities: make(map[Conn]string),
	}
}

// Attach unconditionally (re)binds identity to c and returns the supplanted
// connection, if any. The old connection gets no teardown notice: a reconnect
// supersedes a stale session, and the orphaned conn's eventual disconnect is a
// no-op because its reverse entry is removed here.
func (r *Registry) Attach(identity string, c Conn) (replaced Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[identity]; ok {
		replaced = old
		delete(r.identities, old)
	}
	r.conns[identity] = c
	r.identities[c] = identity
	return replaced
}

// Resolve returns the connection currently bound to identity.
func (r *Registry) Resolve(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[identity]
	return c, ok
}

// ReverseResolve returns the identity bound to c, if c is a live binding.
func (r *Registry) ReverseResolve(c Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[c]
	return identity, ok
}

// Detach removes the binding whose connection is c and returns the identity
// it was bound to. Idempotent: a duplicate disconnect signal, or one from a
// conn that was supplanted by a reconnect, returns ok=false and changes
// nothing.
func (r *Registry) Detach(c Conn) (identity string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok = r.identities[c]
	if !ok {
		return "", false
	}
	delete(r.identities, c)
	// Guard against the forward entry having been replaced by a newer conn.
	if cur, bound := r.conns[identity]; bound && cur == c {
		delete(r.conns, identity)
	}
	return identity, true
}

// ListOnline returns a sorted snapshot of the currently bound identities.
func (r *Registry) ListOnline() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.conns))
	for identity := range r.conns {
		out = append(out, identity)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of active bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// snapshot returns the current bindings as a flat list for broadcast
// iteration outside the registry lock.
func (r *Registry) snapshot() []binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]binding, 0, len(r.conns))
	for identity, c := range r.conns {
		out = append(out, binding{identity: identity, conn: c})
	}
	return out
}

// binding pairs an identity with its bound connection.
type binding struct {
	identity string
	conn     Conn
}

package spangraph

import (
	"fmt"
	"sync"
)

// SpanID identifies an interned span name. IDs are dense, assigned from 0
// in intern order, and stay stable for the lifetime of the Graph that
// owns them.
type SpanID int32

// RootSpan is the caller recorded for spans entered while no other span
// was active on the call stack.
const RootSpan SpanID = -1

// registry owns the name <-> SpanID mapping for a Graph. First-time
// interning is linearizable: concurrent callers interning the same name
// all observe the same winning id.
type registry struct {
	mu    sync.RWMutex
	ids   map[string]SpanID
	names []string
}

func newRegistry() *registry {
	return &registry{ids: make(map[string]SpanID)}
}

func (r *registry) intern(name string) SpanID {
	r.mu.RLock()
	id, ok := r.ids[name]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[name]; ok {
		return id
	}
	id = SpanID(len(r.names))
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// name resolves an id back to the interned span name. Asking for an id
// that was never handed out is a usage error.
func (r *registry) name(id SpanID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || int(id) >= len(r.names) {
		panic(fmt.Sprintf("spangraph: unknown span id %d", id))
	}
	return r.names[id]
}

func (r *registry) contains(id SpanID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return id >= 0 && int(id) < len(r.names)
}

// allNames returns a copy of the interned names, indexed by SpanID.
func (r *registry) allNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

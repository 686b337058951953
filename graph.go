package spangraph

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
)

// Graph accumulates call counts, elapsed time and caller->callee edges
// for every span entered through one of its call stacks. All methods are
// safe for concurrent use by multiple goroutines.
type Graph struct {
	clock    clockz.Clock
	registry *registry

	collecting atomic.Bool

	mu      sync.Mutex
	session uuid.UUID
	stats   map[SpanID]*spanStats
	edges   map[CallKey]uint64
}

type spanStats struct {
	count   uint64
	elapsed time.Duration
}

// CallKey identifies a single caller->callee edge in the aggregated call
// graph. Caller is RootSpan for spans entered with an empty call stack.
type CallKey struct {
	Caller SpanID
	Callee SpanID
}

// New creates an empty Graph using the real clock. Collection starts
// enabled; use EnableCollection(false) to pause it.
func New() *Graph {
	return NewWithClock(clockz.RealClock)
}

// NewWithClock creates an empty Graph with the specified clock. Enables
// clock injection for deterministic testing.
func NewWithClock(clock clockz.Clock) *Graph {
	g := &Graph{
		clock:    clock,
		registry: newRegistry(),
		session:  uuid.New(),
		stats:    make(map[SpanID]*spanStats),
		edges:    make(map[CallKey]uint64),
	}
	g.collecting.Store(true)
	return g
}

// Intern returns the SpanID for name, allocating the next unused id the
// first time a name is seen. The same name always maps to the same id
// within a Graph, including under concurrent first-time interning.
func (g *Graph) Intern(name string) SpanID {
	return g.registry.intern(name)
}

// SpanName resolves an id previously returned by Intern back to its name.
func (g *Graph) SpanName(id SpanID) string {
	return g.registry.name(id)
}

// EnableCollection turns data collection on or off. While disabled,
// entering a span is a no-op: nothing is pushed, timed or recorded.
func (g *Graph) EnableCollection(enabled bool) {
	g.collecting.Store(enabled)
}

// Collecting reports whether the graph is currently recording spans.
func (g *Graph) Collecting() bool {
	return g.collecting.Load()
}

// Session returns the id of the current measurement session. Reset
// rotates it.
func (g *Graph) Session() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.String()
}

// record commits one completed span activation. The count increment, the
// elapsed accumulation and the edge increment are applied under a single
// critical section so a concurrent Snapshot can never observe a
// partially-applied record.
func (g *Graph) record(id SpanID, elapsed time.Duration, caller SpanID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.stats[id]
	if s == nil {
		s = &spanStats{}
		g.stats[id] = s
	}
	s.count++
	s.elapsed += elapsed
	g.edges[CallKey{Caller: caller, Callee: id}]++
}

// Reset clears all accumulated statistics and starts a fresh session.
// Interned span identities survive a reset; their statistics restart at
// zero. Callers must make sure no guards created before the reset are
// still in flight.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = uuid.New()
	g.stats = make(map[SpanID]*spanStats)
	g.edges = make(map[CallKey]uint64)
}

// Snapshot returns a point-in-time, internally consistent copy of the
// aggregated statistics, usable without further synchronization. Every
// interned span appears exactly once, including spans that were never
// entered. Spans are ordered by id, calls by (caller, callee).
func (g *Graph) Snapshot() Snapshot {
	g.mu.Lock()
	// Names are read while holding the table lock: any record already
	// committed is then guaranteed to find its id in the name list.
	names := g.registry.allNames()

	snap := Snapshot{
		Session: g.session.String(),
		Spans:   make([]SpanMetrics, len(names)),
		Calls:   make([]Call, 0, len(g.edges)),
	}
	for i, name := range names {
		id := SpanID(i)
		m := SpanMetrics{ID: id, Name: name}
		if s, ok := g.stats[id]; ok {
			m.Count = s.count
			m.Elapsed = s.elapsed
		}
		snap.Spans[i] = m
	}
	for key, count := range g.edges {
		snap.Calls = append(snap.Calls, Call{Caller: key.Caller, Callee: key.Callee, Count: count})
	}
	g.mu.Unlock()

	sort.Slice(snap.Calls, func(i, j int) bool {
		if snap.Calls[i].Caller != snap.Calls[j].Caller {
			return snap.Calls[i].Caller < snap.Calls[j].Caller
		}
		return snap.Calls[i].Callee < snap.Calls[j].Callee
	})
	return snap
}

package spangraph

import "time"

// Snapshot is a consistent copy of a Graph's aggregated state, taken at a
// single point in time. It is safe to retain and read without locks; it
// does not change when the Graph keeps collecting.
type Snapshot struct {
	// Session identifies the measurement session the data belongs to.
	Session string
	// Spans holds one entry per interned span, indexed by SpanID.
	// Spans that were interned but never entered appear with Count 0.
	Spans []SpanMetrics
	// Calls holds the aggregated caller->callee edges, ordered by
	// (Caller, Callee). An edge with Caller == RootSpan counts
	// activations that happened with no other span active. For a
	// recursive span only nested re-entries count toward its self-loop;
	// the outermost activation is charged to its real caller.
	Calls []Call
}

// SpanMetrics is the accumulated activity of a single span.
type SpanMetrics struct {
	ID      SpanID
	Name    string
	Count   uint64
	Elapsed time.Duration
}

// Mean returns the average time spent per activation, or zero for a span
// that was never entered.
func (m SpanMetrics) Mean() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Elapsed / time.Duration(m.Count)
}

// Call is one aggregated caller->callee edge.
type Call struct {
	Caller SpanID
	Callee SpanID
	Count  uint64
}

// Span returns the metrics for id, if the snapshot contains it.
func (s Snapshot) Span(id SpanID) (SpanMetrics, bool) {
	if id < 0 || int(id) >= len(s.Spans) {
		return SpanMetrics{}, false
	}
	return s.Spans[id], true
}

// SpanByName returns the metrics for the span with the given name.
func (s Snapshot) SpanByName(name string) (SpanMetrics, bool) {
	for _, m := range s.Spans {
		if m.Name == name {
			return m, true
		}
	}
	return SpanMetrics{}, false
}

// CallersOf returns the callers of id, ordered by SpanID, with RootSpan
// first when present.
func (s Snapshot) CallersOf(id SpanID) []SpanID {
	var callers []SpanID
	for _, c := range s.Calls {
		if c.Callee == id {
			callers = append(callers, c.Caller)
		}
	}
	return callers
}

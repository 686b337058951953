// Package spangraph is an in-process call-timing profiler. Named regions
// of code ("spans") are timed on entry/exit and folded into an aggregated
// call graph: how often each span ran, how much wall-clock time it took,
// and how often each span called each other span — including self-loops
// from recursion. It keeps aggregate state only, never per-invocation
// traces, so memory stays bounded no matter how long the program runs.
//
// Instrument code by entering spans on a per-goroutine call stack:
//
//	g := spangraph.New()
//	id := g.Intern("compute")
//
//	stack := g.NewStack()
//	span := stack.Enter(id)
//	defer span.End()
//
// or, when a context is already flowing through the code:
//
//	ctx, span := g.Enter(ctx, "compute")
//	defer span.End()
//
// Once the workload is done, Snapshot returns a consistent copy of the
// aggregated graph for rendering (see the render and graphhttp packages).
//
// A process-wide default graph is available through the package-level
// functions for programs that do not want to thread a *Graph around.
package spangraph

import "context"

var defaultGraph = New()

// Default returns the process-wide graph used by the package-level
// functions.
func Default() *Graph {
	return defaultGraph
}

// Intern interns name on the default graph.
func Intern(name string) SpanID {
	return defaultGraph.Intern(name)
}

// Enter activates a span with the given name on the default graph.
func Enter(ctx context.Context, name string) (context.Context, *Span) {
	return defaultGraph.Enter(ctx, name)
}

// Spanned runs fn inside a span on the default graph.
func Spanned(ctx context.Context, name string, fn func(context.Context) error) error {
	return defaultGraph.Spanned(ctx, name, fn)
}

// EnableCollection turns collection on the default graph on or off.
func EnableCollection(enabled bool) {
	defaultGraph.EnableCollection(enabled)
}

// Reset clears the default graph and starts a fresh session.
func Reset() {
	defaultGraph.Reset()
}

// Capture returns a snapshot of the default graph.
func Capture() Snapshot {
	return defaultGraph.Snapshot()
}

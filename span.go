package spangraph

import "fmt"

// Span is the guard for one activation of a span. It is created by
// CallStack.Enter and must be ended exactly once, on every exit path of
// the instrumented region; deferring End right after Enter guarantees
// that. A Span is owned by the goroutine that entered it and must not be
// shared or copied.
type Span struct {
	stack  *CallStack
	span   SpanID
	caller SpanID
	depth  int
	ended  bool
}

// End stops the timer, pops the span from its call stack and commits
// (span, elapsed, caller) into the graph. Ending a span twice, or ending
// it while a more recently entered span is still active, is a bug in the
// instrumented program and panics.
func (sp *Span) End() {
	if sp.ended {
		panic("spangraph: span ended twice")
	}
	sp.ended = true

	// Span entered while collection was disabled: nothing to commit.
	if sp.stack == nil {
		return
	}

	s := sp.stack
	g := s.graph
	if len(s.frames) != sp.depth {
		panic(fmt.Sprintf(
			"spangraph: span %q ended out of order: %d spans active, guard was created at depth %d",
			g.registry.name(sp.span), len(s.frames), sp.depth,
		))
	}

	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	elapsed := g.clock.Now().Sub(top.start)
	g.record(sp.span, elapsed, sp.caller)
}

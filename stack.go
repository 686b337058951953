package spangraph

import (
	"context"
	"fmt"
	"time"
)

type frame struct {
	span  SpanID
	start time.Time
}

// CallStack tracks the chain of active spans for a single goroutine. The
// top frame is the span currently executing and becomes the caller of the
// next span entered. A CallStack is exclusively owned by one goroutine;
// it is NOT safe for concurrent use. Create one per goroutine with
// Graph.NewStack, or let Graph.Enter manage one through a context.
type CallStack struct {
	graph  *Graph
	frames []frame
}

// NewStack creates an empty call stack bound to the graph.
func (g *Graph) NewStack() *CallStack {
	return &CallStack{graph: g}
}

// Depth returns the number of currently active spans on the stack.
func (s *CallStack) Depth() int {
	return len(s.frames)
}

// Enter activates the span, recording the current top of the stack as its
// caller, and returns the guard that must be ended to commit the
// measurement. Use it with defer:
//
//	span := stack.Enter(id)
//	defer span.End()
//
// Entering a span that is already active on the stack is valid and
// produces a self-loop edge. Entering an id that was never interned on
// this graph panics.
func (s *CallStack) Enter(id SpanID) *Span {
	g := s.graph
	if !g.collecting.Load() {
		return &Span{}
	}
	if !g.registry.contains(id) {
		panic(fmt.Sprintf("spangraph: entering span id %d that was never interned", id))
	}

	caller := RootSpan
	if n := len(s.frames); n > 0 {
		caller = s.frames[n-1].span
	}
	s.frames = append(s.frames, frame{span: id, start: g.clock.Now()})

	return &Span{
		stack:  s,
		span:   id,
		caller: caller,
		depth:  len(s.frames),
	}
}

type stackContextKey struct{}

// NewContext returns a context carrying the call stack. The context must
// stay on the goroutine owning the stack.
func NewContext(ctx context.Context, stack *CallStack) context.Context {
	return context.WithValue(ctx, stackContextKey{}, stack)
}

// StackFromContext extracts the call stack from a context, or nil if the
// context does not carry one.
func StackFromContext(ctx context.Context) *CallStack {
	if ctx == nil {
		return nil
	}
	stack, _ := ctx.Value(stackContextKey{}).(*CallStack)
	return stack
}

// Enter interns name and activates it on the call stack carried by ctx,
// creating a fresh stack when the context has none or carries one bound
// to a different graph. The returned context carries the stack for nested
// calls. Do not pass the returned context to another goroutine; start a
// new stack there instead.
func (g *Graph) Enter(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	stack := StackFromContext(ctx)
	if stack == nil || stack.graph != g {
		stack = g.NewStack()
		ctx = NewContext(ctx, stack)
	}
	return ctx, stack.Enter(g.Intern(name))
}

// Spanned runs fn inside a span with the given name.
func (g *Graph) Spanned(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := g.Enter(ctx, name)
	defer span.End()
	return fn(ctx)
}

package spangraph

import (
	"testing"
)

func TestEndTwicePanics(t *testing.T) {
	g := New()
	id := g.Intern("once")
	stack := g.NewStack()

	span := stack.Enter(id)
	span.End()

	defer func() {
		if recover() == nil {
			t.Fatal("ending a span twice did not panic")
		}
	}()
	span.End()
}

func TestEndTwicePanicsWhileDisabled(t *testing.T) {
	g := New()
	id := g.Intern("once")
	g.EnableCollection(false)
	stack := g.NewStack()

	span := stack.Enter(id)
	span.End()

	defer func() {
		if recover() == nil {
			t.Fatal("double End on a disabled-collection span did not panic")
		}
	}()
	span.End()
}

func TestEndCommitsOnPanicPath(t *testing.T) {
	g := New()
	id := g.Intern("risky")
	stack := g.NewStack()

	func() {
		defer func() { _ = recover() }()
		span := stack.Enter(id)
		defer span.End()
		panic("instrumented code failed")
	}()

	m, _ := g.Snapshot().Span(id)
	if m.Count != 1 {
		t.Fatalf("span exit on panic path was not committed, count=%d", m.Count)
	}
	if stack.Depth() != 0 {
		t.Fatalf("stack not unwound after panic, depth=%d", stack.Depth())
	}
}

func TestDefaultGraph(t *testing.T) {
	Reset()
	defer Reset()

	id := Intern("default-work")
	_, span := Enter(nil, "default-work") //nolint:staticcheck
	span.End()

	snap := Capture()
	m, ok := snap.Span(id)
	if !ok || m.Count != 1 {
		t.Fatalf("default graph did not record the span: %+v", m)
	}
	if Default().Session() != snap.Session {
		t.Fatal("snapshot session does not match the default graph session")
	}
}

package spangraph

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/spangraph/spangraph/internal/testutil"
)

func TestNestedSpansScenario(t *testing.T) {
	clock := clockz.NewFakeClock()
	g := NewWithClock(clock)

	outer := g.Intern("outer")
	inner := g.Intern("inner")

	stack := g.NewStack()
	outerSpan := stack.Enter(outer)
	clock.Advance(5 * time.Millisecond)
	innerSpan := stack.Enter(inner)
	clock.Advance(5 * time.Millisecond)
	innerSpan.End()
	outerSpan.End()

	snap := g.Snapshot()

	wantSpans := []SpanMetrics{
		{ID: outer, Name: "outer", Count: 1, Elapsed: 10 * time.Millisecond},
		{ID: inner, Name: "inner", Count: 1, Elapsed: 5 * time.Millisecond},
	}
	if diff := testutil.Diff(snap.Spans, wantSpans); diff != "" {
		t.Fatalf("span metrics mismatch: %+v\n", diff)
	}

	wantCalls := []Call{
		{Caller: RootSpan, Callee: outer, Count: 1},
		{Caller: outer, Callee: inner, Count: 1},
	}
	if diff := testutil.Diff(snap.Calls, wantCalls); diff != "" {
		t.Fatalf("call edges mismatch: %+v\n", diff)
	}
}

func TestSequentialSpansAccumulate(t *testing.T) {
	clock := clockz.NewFakeClock()
	g := NewWithClock(clock)

	work := g.Intern("work")
	stack := g.NewStack()

	const repeats = 7
	for i := 0; i < repeats; i++ {
		span := stack.Enter(work)
		clock.Advance(3 * time.Millisecond)
		span.End()
	}

	snap := g.Snapshot()
	m, ok := snap.Span(work)
	if !ok {
		t.Fatal("span missing from snapshot")
	}
	if m.Count != repeats {
		t.Fatalf("wanted count %d, got %d", repeats, m.Count)
	}
	if want := repeats * 3 * time.Millisecond; m.Elapsed != want {
		t.Fatalf("wanted total %v, got %v", want, m.Elapsed)
	}
	if want := 3 * time.Millisecond; m.Mean() != want {
		t.Fatalf("wanted mean %v, got %v", want, m.Mean())
	}
}

func TestZeroDurationSpanIsRecorded(t *testing.T) {
	clock := clockz.NewFakeClock()
	g := NewWithClock(clock)

	id := g.Intern("instant")
	stack := g.NewStack()
	stack.Enter(id).End()

	m, _ := g.Snapshot().Span(id)
	if m.Count != 1 || m.Elapsed != 0 {
		t.Fatalf("wanted count=1 elapsed=0, got count=%d elapsed=%v", m.Count, m.Elapsed)
	}
}

func TestInternedButNeverEnteredSpanAppears(t *testing.T) {
	g := New()
	id := g.Intern("idle")

	snap := g.Snapshot()
	m, ok := snap.Span(id)
	if !ok {
		t.Fatal("interned span absent from snapshot")
	}
	if m.Count != 0 || m.Elapsed != 0 {
		t.Fatalf("wanted zero-activity entry, got count=%d elapsed=%v", m.Count, m.Elapsed)
	}
}

func TestConcurrentEntriesNoLostUpdates(t *testing.T) {
	g := New()
	id := g.Intern("hot")

	const goroutines = 8
	const perGoroutine = 500

	var oracle atomic.Uint64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			stack := g.NewStack()
			for j := 0; j < perGoroutine; j++ {
				span := stack.Enter(id)
				oracle.Add(1)
				span.End()
			}
		}()
	}
	wg.Wait()

	m, _ := g.Snapshot().Span(id)
	if m.Count != goroutines*perGoroutine {
		t.Fatalf("wanted count %d, got %d", goroutines*perGoroutine, m.Count)
	}
	if m.Count != oracle.Load() {
		t.Fatalf("aggregated count %d disagrees with oracle %d", m.Count, oracle.Load())
	}

	var rootCalls uint64
	for _, c := range g.Snapshot().Calls {
		if c.Caller == RootSpan && c.Callee == id {
			rootCalls = c.Count
		}
	}
	if rootCalls != goroutines*perGoroutine {
		t.Fatalf("wanted %d root calls, got %d", goroutines*perGoroutine, rootCalls)
	}
}

// Every completed activation advances the clock by exactly 1ms, so any
// snapshot must satisfy elapsed == count * 1ms. A torn record (count
// applied without its elapsed, or the reverse) breaks the equality.
func TestSnapshotNeverObservesTornRecord(t *testing.T) {
	clock := clockz.NewFakeClock()
	g := NewWithClock(clock)
	id := g.Intern("steady")

	done := make(chan struct{})
	go func() {
		defer close(done)
		stack := g.NewStack()
		for i := 0; i < 2000; i++ {
			span := stack.Enter(id)
			clock.Advance(time.Millisecond)
			span.End()
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		snap := g.Snapshot()
		m, _ := snap.Span(id)
		if want := time.Duration(m.Count) * time.Millisecond; m.Elapsed != want {
			t.Fatalf("torn snapshot: count=%d but elapsed=%v", m.Count, m.Elapsed)
		}
	}
}

func TestResetClearsStatisticsAndRotatesSession(t *testing.T) {
	clock := clockz.NewFakeClock()
	g := NewWithClock(clock)
	id := g.Intern("work")

	stack := g.NewStack()
	span := stack.Enter(id)
	clock.Advance(time.Millisecond)
	span.End()

	before := g.Session()
	g.Reset()
	if g.Session() == before {
		t.Fatal("reset did not rotate the session id")
	}

	snap := g.Snapshot()
	m, ok := snap.Span(id)
	if !ok {
		t.Fatal("interned identity should survive a reset")
	}
	if m.Count != 0 || m.Elapsed != 0 {
		t.Fatalf("wanted cleared stats, got count=%d elapsed=%v", m.Count, m.Elapsed)
	}
	if len(snap.Calls) != 0 {
		t.Fatalf("wanted no edges after reset, got %d", len(snap.Calls))
	}
}

func TestCollectionDisabled(t *testing.T) {
	g := New()
	id := g.Intern("quiet")

	g.EnableCollection(false)
	stack := g.NewStack()
	span := stack.Enter(id)
	span.End()

	if g.Collecting() {
		t.Fatal("collection should be disabled")
	}
	m, _ := g.Snapshot().Span(id)
	if m.Count != 0 {
		t.Fatalf("disabled collection still recorded %d calls", m.Count)
	}

	g.EnableCollection(true)
	span = stack.Enter(id)
	span.End()
	m, _ = g.Snapshot().Span(id)
	if m.Count != 1 {
		t.Fatalf("re-enabled collection recorded %d calls, wanted 1", m.Count)
	}
}

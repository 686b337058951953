package render

import (
	"github.com/goccy/go-json"

	"github.com/spangraph/spangraph"
	"github.com/spangraph/spangraph/internal/timeutil"
)

type (
	jsonDocument struct {
		Session string                `json:"session"`
		Timings map[string]jsonTiming `json:"timings"`
		Calls   []jsonCall            `json:"calls"`
	}

	jsonTiming struct {
		ID      spangraph.SpanID  `json:"id"`
		Called  uint64            `json:"called"`
		Elapsed timeutil.Duration `json:"elapsed"`
		Mean    timeutil.Duration `json:"mean"`
	}

	jsonCall struct {
		// Caller is null for root activations.
		Caller *string `json:"caller"`
		Callee string  `json:"callee"`
		Count  uint64  `json:"count"`
	}
)

// JSON renders the snapshot as a JSON document: per-span timings keyed by
// span name, and the list of aggregated calls. The exact output is
// unstable and should not be relied on.
func JSON(snap spangraph.Snapshot) ([]byte, error) {
	doc := jsonDocument{
		Session: snap.Session,
		Timings: make(map[string]jsonTiming, len(snap.Spans)),
		Calls:   make([]jsonCall, 0, len(snap.Calls)),
	}

	for _, m := range snap.Spans {
		doc.Timings[m.Name] = jsonTiming{
			ID:      m.ID,
			Called:  m.Count,
			Elapsed: timeutil.Duration(m.Elapsed),
			Mean:    timeutil.Duration(m.Mean()),
		}
	}

	for _, c := range snap.Calls {
		call := jsonCall{Count: c.Count}
		if c.Caller != spangraph.RootSpan {
			name := snap.Spans[c.Caller].Name
			call.Caller = &name
		}
		call.Callee = snap.Spans[c.Callee].Name
		doc.Calls = append(doc.Calls, call)
	}

	return json.Marshal(doc)
}

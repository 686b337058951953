package render

import (
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/spangraph/spangraph"
)

// Means below this are dominated by timer and bookkeeping overhead and
// get flagged in the table.
const reliableMean = 1500 * time.Nanosecond

// Table renders a per-span summary table of the snapshot, most expensive
// span first. The exact output is unstable and should not be relied on.
func Table(snap spangraph.Snapshot) string {
	spans := make([]spangraph.SpanMetrics, len(snap.Spans))
	copy(spans, snap.Spans)
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Elapsed > spans[j].Elapsed
	})

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"id", "span name", "call count", "called by", "total", "mean"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, m := range spans {
		var callers []string
		for _, caller := range snap.CallersOf(m.ID) {
			if caller == spangraph.RootSpan {
				continue
			}
			callers = append(callers, snap.Spans[caller].Name)
		}
		calledBy := "—"
		if len(callers) > 0 {
			calledBy = strings.Join(callers, ", ")
		}

		mean := m.Mean().String()
		if m.Count == 0 {
			mean = "—"
		} else if m.Mean() < reliableMean {
			mean += " !"
		}

		t.AppendRow(table.Row{m.ID, m.Name, m.Count, calledBy, m.Elapsed, mean})
	}

	return t.Render()
}

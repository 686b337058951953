// Package promexport bridges a spangraph.Graph to Prometheus: a
// prometheus.Collector that renders a fresh snapshot on every scrape as
// constant counter metrics.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spangraph/spangraph"
)

type Collector struct {
	graph *spangraph.Graph

	spanCalls   *prometheus.Desc
	spanElapsed *prometheus.Desc
	calls       *prometheus.Desc
}

// NewCollector creates a collector for the graph. Register it with a
// prometheus.Registerer to expose:
//
//	spangraph_span_calls_total{span}            completed activations
//	spangraph_span_elapsed_seconds_total{span}  wall-clock time inside the span
//	spangraph_calls_total{caller,callee}        aggregated call edges
//
// The caller label is empty for root activations.
func NewCollector(graph *spangraph.Graph) *Collector {
	return &Collector{
		graph: graph,
		spanCalls: prometheus.NewDesc(
			"spangraph_span_calls_total",
			"Number of completed activations of the span.",
			[]string{"span"}, nil,
		),
		spanElapsed: prometheus.NewDesc(
			"spangraph_span_elapsed_seconds_total",
			"Total wall-clock time spent inside the span.",
			[]string{"span"}, nil,
		),
		calls: prometheus.NewDesc(
			"spangraph_calls_total",
			"Number of times caller invoked callee.",
			[]string{"caller", "callee"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.spanCalls
	ch <- c.spanElapsed
	ch <- c.calls
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.graph.Snapshot()

	for _, m := range snap.Spans {
		ch <- prometheus.MustNewConstMetric(
			c.spanCalls, prometheus.CounterValue, float64(m.Count), m.Name)
		ch <- prometheus.MustNewConstMetric(
			c.spanElapsed, prometheus.CounterValue, m.Elapsed.Seconds(), m.Name)
	}

	for _, call := range snap.Calls {
		caller := ""
		if call.Caller != spangraph.RootSpan {
			caller = snap.Spans[call.Caller].Name
		}
		ch <- prometheus.MustNewConstMetric(
			c.calls, prometheus.CounterValue, float64(call.Count),
			caller, snap.Spans[call.Callee].Name)
	}
}

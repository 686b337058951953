// Package render turns a spangraph.Snapshot into the formats consumed by
// humans and tools: a graphviz DOT graph, a JSON document and a summary
// table. Renderers only read the snapshot; they never touch a live graph.
package render

import (
	"fmt"
	"strconv"

	"github.com/emicklei/dot"

	"github.com/spangraph/spangraph"
)

// Dot renders the call graph in graphviz dot format. Nodes are spans with
// their call count and total elapsed time, edges carry the number of
// calls between two spans. Root activations are not drawn as edges. The
// exact output is unstable and should not be relied on.
func Dot(snap spangraph.Snapshot) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")

	nodes := make(map[spangraph.SpanID]dot.Node, len(snap.Spans))
	for _, m := range snap.Spans {
		n := g.Node(strconv.Itoa(int(m.ID)))
		n.Label(fmt.Sprintf("%s\ncalled %d times, total %v", m.Name, m.Count, m.Elapsed))
		nodes[m.ID] = n
	}

	for _, c := range snap.Calls {
		if c.Caller == spangraph.RootSpan {
			continue
		}
		g.Edge(nodes[c.Caller], nodes[c.Callee]).Label(strconv.FormatUint(c.Count, 10))
	}

	return g.String()
}

// Package graphhttp exposes a live spangraph.Graph over HTTP, in the
// spirit of net/http/pprof: mount the handler under a debug prefix and
// fetch the aggregated call graph while the process runs.
package graphhttp

import (
	"net/http"

	"github.com/CAFxX/httpcompression"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/spangraph/spangraph"
	"github.com/spangraph/spangraph/render"
)

// sessionHeader carries the measurement session id of the snapshot a
// response was rendered from.
const sessionHeader = "X-Spangraph-Session"

type handler struct {
	graph *spangraph.Graph
}

// NewRouter returns a handler serving snapshots of the graph:
//
//	GET /snapshot.json   aggregated timings and calls as JSON
//	GET /graph.dot       call graph in graphviz dot format
//	GET /table           per-span summary table, plain text
//	GET /health          liveness probe
//
// Responses are compressed when the client supports it.
func NewRouter(graph *spangraph.Graph) (http.Handler, error) {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	h := handler{graph: graph}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/snapshot.json", h.getSnapshotJSON},
		{http.MethodGet, "/graph.dot", h.getDot},
		{http.MethodGet, "/table", h.getTable},
		{http.MethodGet, "/health", h.getHealth},
	}

	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.method, route.path, compress(route.handler))
	}

	return router, nil
}

func (h handler) getHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h handler) getSnapshotJSON(w http.ResponseWriter, _ *http.Request) {
	snap := h.graph.Snapshot()
	b, err := render.JSON(snap)
	if err != nil {
		log.Err(err).Msg("error marshaling snapshot")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(sessionHeader, snap.Session)
	_, _ = w.Write(b)
}

func (h handler) getDot(w http.ResponseWriter, _ *http.Request) {
	snap := h.graph.Snapshot()

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Header().Set(sessionHeader, snap.Session)
	_, _ = w.Write([]byte(render.Dot(snap)))
}

func (h handler) getTable(w http.ResponseWriter, _ *http.Request) {
	snap := h.graph.Snapshot()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(sessionHeader, snap.Session)
	_, _ = w.Write([]byte(render.Table(snap)))
	_, _ = w.Write([]byte("\n"))
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/spangraph/spangraph"
	"github.com/spangraph/spangraph/graphhttp"
	"github.com/spangraph/spangraph/internal/envutil"
	"github.com/spangraph/spangraph/internal/logutil"
	"github.com/spangraph/spangraph/promexport"
	"github.com/spangraph/spangraph/render"
)

func main() {
	logutil.ConfigureLogger()

	graph := spangraph.New()

	log.Info().Str("session", graph.Session()).Msg("running instrumented workload")
	runWorkload(graph)

	snap := graph.Snapshot()
	fmt.Println(render.Table(snap))
	fmt.Println(render.Dot(snap))

	if envutil.GetEnvOrFallback("SPANGRAPH_SERVE", "") == "" {
		return
	}

	router, err := graphhttp.NewRouter(graph)
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up the router")
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(promexport.NewCollector(graph)); err != nil {
		log.Fatal().Err(err).Msg("error registering the prometheus collector")
	}

	mux := http.NewServeMux()
	mux.Handle("/debug/spangraph/", http.StripPrefix("/debug/spangraph", router))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := http.Server{
		Addr:    ":" + envutil.GetPort(),
		Handler: mux,
	}

	waitForShutdown := make(chan os.Signal, 1)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(cctx); err != nil {
			log.Err(err).Msg("error shutting down server")
		}

		close(waitForShutdown)
	}()

	log.Info().Str("addr", server.Addr).Msg("serving call graph")
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Err(err).Msg("server failed")
	}

	<-waitForShutdown
}

// runWorkload exercises recursion, mutual calls and repeated invocations
// so the rendered graph has self-loops and shared callees to look at.
func runWorkload(graph *spangraph.Graph) {
	ctx := context.Background()
	recurse(ctx, graph, 4)
	functionA(ctx, graph, true)
}

func recurse(ctx context.Context, graph *spangraph.Graph, count int) {
	_ = graph.Spanned(ctx, "recurse", func(ctx context.Context) error {
		time.Sleep(time.Millisecond)
		if count > 1 {
			recurse(ctx, graph, count-1)
		}
		return nil
	})
}

func functionA(ctx context.Context, graph *spangraph.Graph, repeat bool) {
	_ = graph.Spanned(ctx, "function_a", func(ctx context.Context) error {
		time.Sleep(time.Millisecond)
		if repeat {
			functionB(ctx, graph)
		}
		return nil
	})
}

func functionB(ctx context.Context, graph *spangraph.Graph) {
	_ = graph.Spanned(ctx, "function_b", func(ctx context.Context) error {
		time.Sleep(time.Millisecond)
		functionA(ctx, graph, false)
		return nil
	})
}

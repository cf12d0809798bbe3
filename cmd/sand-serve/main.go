package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"sandfall/internal/app"
	"sandfall/internal/core"
	"sandfall/internal/sims/sand"
	"sandfall/internal/stream"
)

//go:embed index.html
var indexHTML []byte

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 30
	addr := flag.String("addr", ":8080", "listen address")
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	materials, err := cfg.Catalog()
	if err != nil {
		log.Fatalf("materials: %v", err)
	}
	engine := sand.New(sand.FromMap(cfg.SimOptions()))
	if err := engine.Init(); err != nil {
		log.Fatalf("init: %v", err)
	}

	srv := stream.NewServer(engine, materials)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
	mux.Handle("/ws", srv)
	httpServer := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tps := cfg.TPS
	if tps <= 0 {
		tps = 30
	}
	go simulate(ctx, engine, srv, time.Second/time.Duration(tps))

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdown)
	}()

	log.Printf("serving %dx%d sand on http://localhost%s", cfg.Dimension, cfg.Dimension, *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// simulate steps the engine on the scheduler's wall-clock cadence and
// broadcasts a frame every tick.
func simulate(ctx context.Context, engine *sand.Engine, srv *stream.Server, frame time.Duration) {
	params := engine.Config().Params
	sched := core.NewScheduler(time.Duration(params.IterationDelay*float64(time.Second)), params.IterationsPerTick)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for n := sched.Due(); n > 0; n-- {
			if err := engine.Step(); err != nil {
				log.Printf("step: %v", err)
				return
			}
		}
		if srv.Clients() > 0 {
			srv.Broadcast()
		}
	}
}

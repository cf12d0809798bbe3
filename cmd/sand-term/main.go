package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"sandfall/internal/app"
	"sandfall/internal/input"
	"sandfall/internal/sims/sand"
	"sandfall/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	// Half blocks give two grid rows per text row; 64 fits most terminals.
	cfg.Dimension = 64
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	materials, err := cfg.Catalog()
	if err != nil {
		log.Fatalf("materials: %v", err)
	}
	if cfg.Material != "" && materials.Index(cfg.Material) < 0 {
		log.Fatalf("unknown material %q", cfg.Material)
	}

	engine := sand.New(sand.FromMap(cfg.SimOptions()))
	if err := engine.Init(); err != nil {
		log.Fatalf("init: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	screen.EnableMouse()

	brush := input.NewBrush(materials, cfg.Radius)
	if cfg.Material != "" {
		brush.Select(cfg.Material)
	}
	session := term.NewSession(screen, engine, brush, term.NewView(screen, materials.Palette()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tps := cfg.TPS
	if tps <= 0 {
		tps = 30
	}
	err = session.Run(ctx, time.Second/time.Duration(tps))
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		log.Fatalf("run: %v", err)
	}
}

//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"sandfall/internal/app"
	"sandfall/internal/core"
	_ "sandfall/internal/sims/sand"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}
	sim, ok := factory(cfg.SimOptions()).(app.Sim)
	if !ok {
		log.Fatalf("sim %q does not accept spawn input", cfg.Sim)
	}
	if err := sim.Reset(cfg.Seed); err != nil {
		log.Fatalf("init %s: %v", cfg.Sim, err)
	}

	materials, err := cfg.Catalog()
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(sim, materials, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("sandfall: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

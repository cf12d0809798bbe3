package app

import (
	"flag"
	"testing"

	"sandfall/internal/sims/sand"
)

func TestBindAndSimOptions(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-dim", "64", "-delay", "0.05", "-iters", "3", "-radius", "7", "-seed", "9", "-workers", "2"})
	if err != nil {
		t.Fatal(err)
	}

	sc := sand.FromMap(cfg.SimOptions())
	want := sand.Config{
		Dimension: 64,
		Seed:      9,
		Workers:   2,
		Params:    sand.Params{IterationDelay: 0.05, IterationsPerTick: 3, SpawnRadius: 7},
	}
	if sc != want {
		t.Fatalf("FromMap(SimOptions())=%+v, want %+v", sc, want)
	}
}

func TestCatalogFlag(t *testing.T) {
	cfg := NewConfig()
	cat, err := cfg.Catalog()
	if err != nil || cat.Len() == 0 {
		t.Fatalf("expected built-in catalog, got %v %v", cat, err)
	}
	cfg.Materials = "snow=9:1:#ffffff"
	cat, err = cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := cat.Lookup("snow"); !ok || m.ID != 9 {
		t.Fatalf("unexpected catalog entry %+v", m)
	}
	cfg.Materials = "broken"
	if _, err := cfg.Catalog(); err == nil {
		t.Fatal("expected malformed catalog to fail")
	}
}

package sand

import (
	"errors"
	"slices"
	"testing"

	"sandfall/internal/core"
)

var sandRef = MaterialRef{ID: 1, Weight: 1}

func newEngine(t *testing.T, dim int, workers int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dimension = dim
	cfg.Workers = workers
	e := New(cfg)
	if err := e.Init(); err != nil {
		t.Fatalf("init %d: %v", dim, err)
	}
	return e
}

func place(e *Engine, x, y int, material int32) {
	g := e.grid
	i := g.size.Index(x, y)
	g.front[i] = Cell{Material: material, Weight: 1}
	g.back[i] = g.front[i]
}

func at(e *Engine, x, y int) Cell {
	return e.grid.front[e.grid.size.Index(x, y)]
}

func step(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
}

func randomFill(e *Engine, seed int64, density float64) {
	rng := core.NewRNG(seed)
	dim := e.grid.dim()
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if rng.Float64() < density {
				place(e, x, y, int32(1+rng.IntN(4)))
			}
		}
	}
}

func TestInitRejectsInvalidDimension(t *testing.T) {
	for _, dim := range []int{0, -8, 7, 12} {
		cfg := DefaultConfig()
		cfg.Dimension = dim
		e := New(cfg)
		if err := e.Init(); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("dimension %d: expected ErrInvalidDimension, got %v", dim, err)
		}
		if e.Ready() {
			t.Fatalf("dimension %d: engine must stay uninitialised", dim)
		}
		if err := e.Step(); !errors.Is(err, ErrEngineNotReady) {
			t.Fatalf("dimension %d: expected ErrEngineNotReady from Step, got %v", dim, err)
		}
		if err := e.Spawn(SpawnRequest{U: 0.5, V: 0.5, Radius: 1, Material: sandRef}); !errors.Is(err, ErrEngineNotReady) {
			t.Fatalf("dimension %d: expected ErrEngineNotReady from Spawn, got %v", dim, err)
		}
	}
}

func TestFailedReinitLeavesEngineUninitialised(t *testing.T) {
	e := newEngine(t, 16, 2)
	e.cfg.Dimension = 10
	if err := e.Init(); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if err := e.Step(); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady after failed init, got %v", err)
	}
}

func TestInitResetsState(t *testing.T) {
	e := newEngine(t, 16, 2)
	if err := e.Spawn(SpawnRequest{U: 0.5, V: 0.5, Radius: 5, Material: sandRef}); err != nil {
		t.Fatal(err)
	}
	step(t, e)
	if err := e.Spawn(SpawnRequest{U: 0.2, V: 0.8, Radius: 3, Material: sandRef}); err != nil {
		t.Fatal(err)
	}
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	if n := e.Count(); n != 0 {
		t.Fatalf("expected empty grid after Init, got %d cells", n)
	}
	if _, ok := e.Pending(); ok {
		t.Fatal("expected Init to discard the pending spawn")
	}
	if e.Iteration() != 0 {
		t.Fatalf("expected iteration counter reset, got %d", e.Iteration())
	}
	step(t, e)
	if n := e.Count(); n != 0 {
		t.Fatalf("discarded spawn must not be applied, got %d cells", n)
	}
}

func TestSingleCellSpawnThenFall(t *testing.T) {
	e := newEngine(t, 8, 4)
	if err := e.Spawn(SpawnRequest{U: 0.5, V: 0.5, Radius: 1, Material: sandRef}); err != nil {
		t.Fatal(err)
	}
	step(t, e)

	front := e.Front()
	if n := occupied(front); n != 1 {
		t.Fatalf("expected exactly one cell after spawn, got %d", n)
	}
	if c := at(e, 4, 4); c.Material != 1 || c.Settled {
		t.Fatalf("expected settled-free sand at centre, got %+v", c)
	}

	step(t, e)
	if n := e.Count(); n != 1 {
		t.Fatalf("expected one cell after falling, got %d", n)
	}
	if c := at(e, 4, 3); c.Material != 1 {
		t.Fatalf("expected sand to fall one row, got %+v at (4,3)", c)
	}
}

func TestSpawnFillsOnlyEmptyCellsInDisc(t *testing.T) {
	e := newEngine(t, 32, 4)
	place(e, 16, 0, 4)
	place(e, 17, 0, 4)
	place(e, 16, 2, 4)
	before := e.Front()

	req := SpawnRequest{U: 0.5, V: 0, Radius: 7, Material: sandRef}
	if err := e.Spawn(req); err != nil {
		t.Fatal(err)
	}
	step(t, e)
	after := e.Front()

	disc := resolveSpawn(req, 32)
	emptyBefore, newlyFilled := 0, 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if !disc.covers(x, y) {
				continue
			}
			i := y*32 + x
			if before[i].Empty() {
				emptyBefore++
				if after[i].Material != sandRef.ID {
					t.Fatalf("empty disc cell (%d,%d) not filled: %+v", x, y, after[i])
				}
				newlyFilled++
				continue
			}
			if after[i].Material != before[i].Material {
				t.Fatalf("occupied disc cell (%d,%d) overwritten: %+v", x, y, after[i])
			}
		}
	}
	if emptyBefore == 0 || newlyFilled != emptyBefore {
		t.Fatalf("filled %d of %d empty disc cells", newlyFilled, emptyBefore)
	}
	if got, want := occupied(after), occupied(before)+emptyBefore; got != want {
		t.Fatalf("expected %d occupied cells, got %d", want, got)
	}
}

func TestSpawnConsumedByOneStep(t *testing.T) {
	e := newEngine(t, 32, 4)
	if err := e.Spawn(SpawnRequest{U: 0.5, V: 0.9, Radius: 9, Material: sandRef}); err != nil {
		t.Fatal(err)
	}
	step(t, e)
	spawned := e.Count()
	if spawned == 0 {
		t.Fatal("expected spawn to place material")
	}
	if _, ok := e.Pending(); ok {
		t.Fatal("expected request to be consumed")
	}
	for i := 0; i < 5; i++ {
		step(t, e)
		if n := e.Count(); n != spawned {
			t.Fatalf("step %d: expected %d cells, got %d", i, spawned, n)
		}
	}
}

func TestSpawnValidationKeepsPendingRequest(t *testing.T) {
	e := newEngine(t, 16, 2)
	first := SpawnRequest{U: 0.25, V: 0.75, Radius: 3, Material: sandRef}
	if err := e.Spawn(first); err != nil {
		t.Fatal(err)
	}
	bad := []SpawnRequest{
		{U: 0.5, V: 0.5, Radius: 0, Material: sandRef},
		{U: 0.5, V: 0.5, Radius: 3},
		{U: 1.5, V: 0.5, Radius: 3, Material: sandRef},
		{U: 0.5, V: -0.1, Radius: 3, Material: sandRef},
	}
	for _, r := range bad {
		if err := e.Spawn(r); !errors.Is(err, ErrInvalidSpawnRequest) {
			t.Fatalf("Spawn(%+v): expected ErrInvalidSpawnRequest, got %v", r, err)
		}
	}
	if got, ok := e.Pending(); !ok || got != first {
		t.Fatalf("expected pending request to survive rejections, got %+v %v", got, ok)
	}

	second := SpawnRequest{U: 0.75, V: 0.25, Radius: 1, Material: MaterialRef{ID: 3, Weight: 2}}
	if err := e.Spawn(second); err != nil {
		t.Fatal(err)
	}
	if got, _ := e.Pending(); got != second {
		t.Fatalf("expected last write to win, got %+v", got)
	}
	step(t, e)
	if n := e.Count(); n != 1 {
		t.Fatalf("expected only the latest request to apply, got %d cells", n)
	}
	if c := at(e, 12, 4); c.Material != 3 || c.Weight != 2 {
		t.Fatalf("expected clay at (12,4), got %+v", c)
	}
}

func TestMassConservationAndSettledReset(t *testing.T) {
	e := newEngine(t, 32, 4)
	randomFill(e, 7, 0.4)
	want := e.Count()
	for i := 0; i < 60; i++ {
		step(t, e)
		front := e.Front()
		if n := occupied(front); n != want {
			t.Fatalf("step %d: mass changed from %d to %d", i, want, n)
		}
		for idx, c := range front {
			if c.Settled {
				t.Fatalf("step %d: cell %d still settled", i, idx)
			}
		}
	}
}

func TestBottomRowStaysPut(t *testing.T) {
	e := newEngine(t, 8, 1)
	for x := 0; x < 8; x++ {
		place(e, x, 0, 4)
	}
	for i := 0; i < 4; i++ {
		step(t, e)
	}
	for x := 0; x < 8; x++ {
		if at(e, x, 0).Material != 4 {
			t.Fatalf("bottom cell %d lost its material", x)
		}
	}
	if n := e.Count(); n != 8 {
		t.Fatalf("expected 8 cells, got %d", n)
	}
}

func TestBlockedCellSlidesDiagonally(t *testing.T) {
	e := newEngine(t, 8, 1)
	place(e, 4, 0, 4)
	place(e, 4, 1, 1)
	step(t, e)

	if !at(e, 4, 1).Empty() {
		t.Fatal("expected blocked cell to leave its position")
	}
	left, right := !at(e, 3, 0).Empty(), !at(e, 5, 0).Empty()
	if left == right {
		t.Fatalf("expected exactly one diagonal to receive the cell, left=%v right=%v", left, right)
	}
}

func TestSlideStopsAtWall(t *testing.T) {
	e := newEngine(t, 8, 1)
	place(e, 0, 0, 4)
	place(e, 1, 0, 4)
	place(e, 0, 1, 1)
	step(t, e)
	if at(e, 0, 1).Material != 1 {
		t.Fatal("cell against the wall with no free slot below must stay")
	}
}

func TestDiagonalTieBreakUsesBothSides(t *testing.T) {
	seen := map[int]bool{}
	for seed := int64(1); seed <= 64 && len(seen) < 2; seed++ {
		cfg := DefaultConfig()
		cfg.Dimension = 8
		cfg.Seed = seed
		e := New(cfg)
		if err := e.Init(); err != nil {
			t.Fatal(err)
		}
		place(e, 4, 0, 4)
		place(e, 4, 1, 1)
		step(t, e)
		switch {
		case !at(e, 3, 0).Empty():
			seen[-1] = true
		case !at(e, 5, 0).Empty():
			seen[1] = true
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected both slide directions across seeds, saw %v", seen)
	}
}

func TestContendedCellAcceptsOneSource(t *testing.T) {
	e := newEngine(t, 8, 2)
	for _, p := range [][2]int{{2, 0}, {3, 0}, {5, 0}, {6, 0}, {3, 1}, {5, 1}} {
		place(e, p[0], p[1], 1)
	}
	step(t, e)
	if at(e, 4, 0).Empty() {
		t.Fatal("expected the gap to be filled")
	}
	if a, b := at(e, 3, 1).Empty(), at(e, 5, 1).Empty(); a == b {
		t.Fatalf("expected exactly one source to move, left empty=%v right empty=%v", a, b)
	}
	if n := e.Count(); n != 6 {
		t.Fatalf("expected 6 cells, got %d", n)
	}
}

func TestUpdateDeterministicAcrossWorkerCounts(t *testing.T) {
	run := func(workers int) []Cell {
		e := newEngine(t, 64, workers)
		randomFill(e, 99, 0.3)
		for i := 0; i < 25; i++ {
			if i%5 == 0 {
				if err := e.Spawn(SpawnRequest{U: 0.3, V: 0.9, Radius: 11, Material: sandRef}); err != nil {
					t.Fatal(err)
				}
			}
			step(t, e)
		}
		return e.Front()
	}
	serial := run(1)
	parallel := run(8)
	if !slices.Equal(serial, parallel) {
		t.Fatal("parallel dispatch diverged from serial evaluation")
	}
	if again := run(8); !slices.Equal(parallel, again) {
		t.Fatal("repeated evaluation not deterministic")
	}
}

func TestDisplayBufferTopRowFirst(t *testing.T) {
	e := newEngine(t, 8, 1)
	if err := e.Spawn(SpawnRequest{U: 0.5, V: 0, Radius: 1, Material: MaterialRef{ID: 2, Weight: 1}}); err != nil {
		t.Fatal(err)
	}
	step(t, e)
	cells := e.CopyCells(nil)
	if got := cells[7*8+4]; got != 2 {
		t.Fatalf("expected bottom grid row at last display row, got %d", got)
	}
	for i, v := range cells {
		if v != 0 && i != 7*8+4 {
			t.Fatalf("unexpected display value %d at %d", v, i)
		}
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"dimension":           "64",
		"seed":                "5",
		"workers":             "3",
		"iteration_delay":     "0.25",
		"iterations_per_tick": "4",
		"spawn_radius":        "6",
	})
	if cfg.Dimension != 64 || cfg.Seed != 5 || cfg.Workers != 3 {
		t.Fatalf("unexpected grid config %+v", cfg)
	}
	if cfg.Params != (Params{IterationDelay: 0.25, IterationsPerTick: 4, SpawnRadius: 6}) {
		t.Fatalf("unexpected params %+v", cfg.Params)
	}

	def := DefaultConfig()
	bad := FromMap(map[string]string{
		"iteration_delay":     "-1",
		"iterations_per_tick": "0",
		"spawn_radius":        "zero",
	})
	if bad.Params != def.Params {
		t.Fatalf("invalid values must keep defaults, got %+v", bad.Params)
	}
}

func TestParameterSetters(t *testing.T) {
	e := New(DefaultConfig())
	if !e.SetIntParameter("spawn_radius", 3) || e.Config().Params.SpawnRadius != 3 {
		t.Fatal("expected spawn radius to be adjustable")
	}
	if e.SetIntParameter("spawn_radius", 0) {
		t.Fatal("expected radius below 1 to be rejected")
	}
	if e.SetIntParameter("dimension", 16) {
		t.Fatal("dimension is fixed until re-init")
	}
	if !e.SetFloatParameter("iteration_delay", -2) || e.Config().Params.IterationDelay != 0 {
		t.Fatal("expected negative delay to clamp to zero")
	}
	p, ok := e.Parameters().Lookup("iterations_per_tick")
	if !ok || p.Value != "1" {
		t.Fatalf("unexpected snapshot entry %+v %v", p, ok)
	}
}

func TestRegisteredInSimRegistry(t *testing.T) {
	factory, ok := core.Sims()["sand"]
	if !ok {
		t.Fatal("sand sim not registered")
	}
	sim := factory(map[string]string{"dimension": "16"})
	if err := sim.Reset(3); err != nil {
		t.Fatal(err)
	}
	if s := sim.Size(); s.W != 16 || s.H != 16 {
		t.Fatalf("unexpected size %+v", s)
	}
	if err := sim.Step(); err != nil {
		t.Fatal(err)
	}
}

package sand

import (
	"slices"
	"time"

	"sandfall/internal/core"
)

// Scenario describes a headless run: random spawns of the listed materials in
// the upper half of the grid, one every SpawnEvery steps.
type Scenario struct {
	Config     Config
	Materials  []MaterialRef
	Steps      int
	SpawnEvery int
}

// ScenarioResult summarises a headless run.
type ScenarioResult struct {
	Seed   int64
	Steps  int
	Spawns int
	// Cells is the number of occupied cells at the end of the run.
	Cells int
	// MassErrors counts steps whose occupied cell count differs from the
	// previous count plus the cells the spawn filled.
	MassErrors int
	// SettledErrors counts steps that left a settled flag in the front buffer.
	SettledErrors int
	// RestStep is the first step after the last spawn at which no cell moved,
	// or -1 when the grid never came to rest.
	RestStep int
	Elapsed  time.Duration
}

// OK reports whether the run kept every conservation check.
func (r ScenarioResult) OK() bool {
	return r.MassErrors == 0 && r.SettledErrors == 0
}

// RunScenario drives a fresh engine through s and checks mass conservation
// and the settled reset after every step.
func RunScenario(s Scenario) (ScenarioResult, error) {
	e := New(s.Config)
	if err := e.Init(); err != nil {
		return ScenarioResult{}, err
	}
	dim := e.Size().W
	rng := core.NewRNG(s.Config.Seed)
	res := ScenarioResult{Seed: s.Config.Seed, RestStep: -1}
	start := time.Now()

	prev := e.Front()
	for i := 0; i < s.Steps; i++ {
		gain := 0
		spawned := false
		if s.SpawnEvery > 0 && i%s.SpawnEvery == 0 && len(s.Materials) > 0 {
			req := SpawnRequest{
				U:        rng.Float64(),
				V:        0.5 + rng.Float64()/2,
				Radius:   s.Config.Params.SpawnRadius,
				Material: s.Materials[rng.IntN(len(s.Materials))],
			}
			if err := e.Spawn(req); err != nil {
				return res, err
			}
			gain = spawnGain(prev, resolveSpawn(req, dim), dim)
			spawned = true
			res.Spawns++
		}
		if err := e.Step(); err != nil {
			return res, err
		}
		res.Steps++

		next := e.Front()
		if occupied(next) != occupied(prev)+gain {
			res.MassErrors++
		}
		if slices.ContainsFunc(next, func(c Cell) bool { return c.Settled }) {
			res.SettledErrors++
		}
		switch {
		case spawned:
			res.RestStep = -1
		case res.RestStep < 0 && slices.Equal(prev, next):
			res.RestStep = i + 1
		}
		prev = next
	}

	res.Cells = occupied(prev)
	res.Elapsed = time.Since(start)
	return res, nil
}

// spawnGain counts the empty cells of front that disc fills.
func spawnGain(front []Cell, disc spawnDisc, dim int) int {
	n := 0
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if disc.covers(x, y) && front[y*dim+x].Empty() {
				n++
			}
		}
	}
	return n
}

func occupied(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}

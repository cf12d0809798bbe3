// Package sand implements a falling-sand cellular automaton. The grid is
// double buffered: every pass reads the committed front buffer, writes the
// back buffer, and the back buffer is then committed to the front.
package sand

import (
	"fmt"
	"sync"

	"sandfall/internal/core"
)

// Engine runs the falling-sand simulation. The zero state is uninitialised;
// call Init (or Reset) before Step or Spawn.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	grid      *grid
	ready     bool
	iteration uint64
	display   []uint8

	spawnMu sync.Mutex
	pending *SpawnRequest
}

// New returns an uninitialised engine for cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name returns the simulation identifier.
func (e *Engine) Name() string { return "sand" }

// Size reports the grid dimensions, or the configured ones before Init.
func (e *Engine) Size() core.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid != nil {
		return e.grid.size
	}
	return core.Size{W: e.cfg.Dimension, H: e.cfg.Dimension}
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Ready reports whether the engine has been initialised successfully.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Iteration returns the number of completed steps since the last Init.
func (e *Engine) Iteration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.iteration
}

// Init allocates (or clears) the grid, discards any pending spawn and resets
// the iteration counter. On failure the engine is left uninitialised.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initLocked()
}

// Reset reinitialises the engine. A non-zero seed replaces the configured
// tie-break seed.
func (e *Engine) Reset(seed int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seed != 0 {
		e.cfg.Seed = seed
	}
	return e.initLocked()
}

func (e *Engine) initLocked() error {
	e.ready = false
	e.clearPending()

	dim := e.cfg.Dimension
	g := e.grid
	if g == nil || g.dim() != dim {
		var err error
		g, err = newGrid(dim, e.cfg.Workers)
		if err != nil {
			e.grid = nil
			e.display = nil
			return err
		}
	}
	g.workers = e.cfg.Workers
	if err := g.clear(); err != nil {
		return fmt.Errorf("sand: init pass: %w", err)
	}
	if err := g.commit(); err != nil {
		return fmt.Errorf("sand: init commit: %w", err)
	}
	e.grid = g
	e.iteration = 0
	if len(e.display) != dim*dim {
		e.display = make([]uint8, dim*dim)
	}
	e.rebuildDisplay()
	e.ready = true
	return nil
}

// Spawn queues r for the next Step, replacing any request still pending.
// An invalid request is rejected and the pending one is kept.
func (e *Engine) Spawn(r SpawnRequest) error {
	if !e.Ready() {
		return ErrEngineNotReady
	}
	if err := r.validate(); err != nil {
		return fmt.Errorf("%w: radius=%d material=%d uv=(%g,%g)", err, r.Radius, r.Material.ID, r.U, r.V)
	}
	e.spawnMu.Lock()
	e.pending = &r
	e.spawnMu.Unlock()
	return nil
}

// Pending returns the request the next Step will consume, if any.
func (e *Engine) Pending() (SpawnRequest, bool) {
	e.spawnMu.Lock()
	defer e.spawnMu.Unlock()
	if e.pending == nil {
		return SpawnRequest{}, false
	}
	return *e.pending, true
}

func (e *Engine) takePending() (SpawnRequest, bool) {
	e.spawnMu.Lock()
	defer e.spawnMu.Unlock()
	if e.pending == nil {
		return SpawnRequest{}, false
	}
	r := *e.pending
	e.pending = nil
	return r, true
}

func (e *Engine) clearPending() {
	e.spawnMu.Lock()
	e.pending = nil
	e.spawnMu.Unlock()
}

// Step advances the simulation by one tick: update, commit, settled reset,
// commit. A failed pass leaves the grid undefined, so the engine drops back
// to the uninitialised state and must be re-initialised.
func (e *Engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return ErrEngineNotReady
	}

	g := e.grid
	pass := updatePass{
		size:  g.size,
		front: g.front,
		back:  g.back,
		tick:  e.iteration,
		salt:  e.cfg.Seed,
	}
	if r, ok := e.takePending(); ok {
		pass.spawn = resolveSpawn(r, g.dim())
	}

	if err := g.dispatch(pass.update); err != nil {
		e.ready = false
		return fmt.Errorf("sand: update pass: %w", err)
	}
	if err := g.commit(); err != nil {
		e.ready = false
		return fmt.Errorf("sand: update commit: %w", err)
	}
	if err := g.dispatch(func(x, y int) { resetSettled(g, x, y) }); err != nil {
		e.ready = false
		return fmt.Errorf("sand: reset pass: %w", err)
	}
	if err := g.commit(); err != nil {
		e.ready = false
		return fmt.Errorf("sand: reset commit: %w", err)
	}

	e.iteration++
	e.rebuildDisplay()
	return nil
}

// Front returns a copy of the committed buffer in row-major order with
// y = 0 as the bottom row. It returns nil before Init.
func (e *Engine) Front() []Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid == nil {
		return nil
	}
	out := make([]Cell, len(e.grid.front))
	copy(out, e.grid.front)
	return out
}

// Cells exposes the display buffer: one material ID per cell, top row first.
// The slice is rewritten in place by the next Step; copy it to keep a stable
// view.
func (e *Engine) Cells() []uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

// CopyCells copies the display buffer into dst, growing it when needed.
func (e *Engine) CopyCells(dst []uint8) []uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cap(dst) < len(e.display) {
		dst = make([]uint8, len(e.display))
	}
	dst = dst[:len(e.display)]
	copy(dst, e.display)
	return dst
}

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		return New(FromMap(cfg))
	})
}

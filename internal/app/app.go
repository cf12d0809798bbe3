//go:build ebiten

package app

import (
	"log"
	"time"

	"sandfall/internal/catalog"
	"sandfall/internal/core"
	"sandfall/internal/input"
	"sandfall/internal/render"
	"sandfall/internal/sims/sand"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the control panel right of the grid.
const HUDWidth = 220

// Sim is the simulation surface the GUI drives.
type Sim interface {
	core.Sim
	Spawn(sand.SpawnRequest) error
	Config() sand.Config
}

// Game adapts a sand simulation to the ebiten.Game interface.
type Game struct {
	sim     Sim
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	brush   *input.Brush
	sched   *core.Scheduler

	scale    int
	frame    time.Duration
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided, already initialised simulation.
func New(sim Sim, materials *catalog.Catalog, cfg *Config) *Game {
	size := sim.Size()
	params := sim.Config().Params
	brush := input.NewBrush(materials, params.SpawnRadius)
	if cfg.Material != "" && !brush.Select(cfg.Material) {
		log.Printf("unknown material %q, keeping %s", cfg.Material, brush.Material().Name)
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H, materials.Palette()),
		hud:     ui.NewHUD(sim, brush, materials, HUDWidth),
		overlay: ui.NewOverlay(sim, brush, cfg.Scale),
		brush:   brush,
		sched:   core.NewScheduler(seconds(params.IterationDelay), params.IterationsPerTick),
		scale:   cfg.Scale,
		frame:   time.Second / time.Duration(tps),
		seed:    cfg.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	g.tickOnce = false
	g.brush.Release()
	return g.sim.Reset(seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.brush.Cycle(1)
	}

	size := g.sim.Size()
	gridW := size.W * g.scale
	g.hud.Update(gridW)
	g.overlay.Update()

	params := g.sim.Config().Params
	g.brush.SetRadius(params.SpawnRadius)
	g.sched.SetDelay(seconds(params.IterationDelay))
	g.sched.SetIterations(params.IterationsPerTick)

	g.updateBrush(size)

	if g.paused {
		if g.tickOnce {
			g.tickOnce = false
			return g.sim.Step()
		}
		return nil
	}
	return g.sched.Run(g.frame, g.sim.Step)
}

func (g *Game) updateBrush(size core.Size) {
	area := input.Rect{MaxX: float64(size.W * g.scale), MaxY: float64(size.H * g.scale)}
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && area.Contains(x, y) {
		g.brush.Press()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.brush.Release()
	}
	req, ok := g.brush.Update(g.frame, x, y, area)
	if !ok {
		return
	}
	if err := g.sim.Spawn(req); err != nil {
		log.Printf("spawn rejected: %v", err)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + HUDWidth, s.H * g.scale
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

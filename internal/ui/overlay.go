//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"sandfall/internal/core"
	"sandfall/internal/input"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

type statsProvider interface {
	Iteration() uint64
	Count() int
}

// Overlay draws the brush outline and a status line on top of the grid.
type Overlay struct {
	sim       core.Sim
	brush     *input.Brush
	scale     int
	showBrush bool
	showStats bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, brush *input.Brush, scale int) *Overlay {
	return &Overlay{sim: sim, brush: brush, scale: max(scale, 1), showBrush: true, showStats: true}
}

// Update toggles overlay layers: B for the brush outline, H for the status line.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		o.showBrush = !o.showBrush
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showStats = !o.showStats
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showBrush {
		mx, my := ebiten.CursorPosition()
		if mx < size.W*o.scale && my < size.H*o.scale {
			// Matches the spawn disc: cells within (radius-1)/2 of the centre.
			r := (float32(o.brush.Radius()-1)/2 + 0.5) * float32(o.scale)
			col := o.brush.Material().Color
			col.A = 200
			vector.StrokeCircle(screen, float32(mx), float32(my), r, 1, col, false)
		}
	}
	if o.showStats {
		line := fmt.Sprintf("%s  r=%d", o.brush.Material().Name, o.brush.Radius())
		if stats, ok := o.sim.(statsProvider); ok {
			line = fmt.Sprintf("tick %d  cells %d  %s", stats.Iteration(), stats.Count(), line)
		}
		text.Draw(screen, line, basicfont.Face7x13, 6, 16, color.RGBA{R: 230, G: 230, B: 240, A: 220})
	}
}

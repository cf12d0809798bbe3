// Package input turns pointer gestures into spawn requests.
package input

import (
	"time"

	"sandfall/internal/catalog"
	"sandfall/internal/sims/sand"
)

// DefaultInterval is the minimum time between two requests of one gesture.
const DefaultInterval = 200 * time.Millisecond

// Rect is the on-screen area the grid is drawn into, in screen coordinates
// with y growing downwards.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// UV maps a screen point to normalized grid coordinates. Points outside the
// rectangle are clamped to its edges. The screen top maps to v = 1.
func (r Rect) UV(x, y float64) (float64, float64) {
	u := inverseLerp(r.MinX, r.MaxX, x)
	v := 1 - inverseLerp(r.MinY, r.MaxY, y)
	return u, v
}

func inverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	t := (v - a) / (b - a)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Brush tracks a press-and-hold gesture and emits at most one spawn request
// per Interval while it is held. The first request fires on the first update
// after the press.
type Brush struct {
	Interval time.Duration

	materials *catalog.Catalog
	selected  int
	radius    int

	held    bool
	primed  bool
	elapsed time.Duration
}

// NewBrush creates a brush painting the first catalog material.
func NewBrush(materials *catalog.Catalog, radius int) *Brush {
	b := &Brush{Interval: DefaultInterval, materials: materials}
	b.SetRadius(radius)
	return b
}

// Press starts a gesture.
func (b *Brush) Press() {
	if b.held {
		return
	}
	b.held = true
	b.primed = true
	b.elapsed = 0
}

// Release ends the current gesture.
func (b *Brush) Release() {
	b.held = false
	b.primed = false
}

// Held reports whether a gesture is in progress.
func (b *Brush) Held() bool { return b.held }

// Radius returns the brush radius in cells.
func (b *Brush) Radius() int { return b.radius }

// SetRadius changes the brush radius; values below 1 become 1.
func (b *Brush) SetRadius(r int) {
	if r < 1 {
		r = 1
	}
	b.radius = r
}

// Material returns the selected material.
func (b *Brush) Material() catalog.Material {
	return b.materials.At(b.selected)
}

// Cycle moves the selection by delta, wrapping around the catalog.
func (b *Brush) Cycle(delta int) {
	n := b.materials.Len()
	b.selected = ((b.selected+delta)%n + n) % n
}

// Select picks a material by name.
func (b *Brush) Select(name string) bool {
	i := b.materials.Index(name)
	if i < 0 {
		return false
	}
	b.selected = i
	return true
}

// Request builds a spawn request for the normalized position with the
// current selection.
func (b *Brush) Request(u, v float64) sand.SpawnRequest {
	m := b.Material()
	return sand.SpawnRequest{
		U:        u,
		V:        v,
		Radius:   b.radius,
		Material: sand.MaterialRef{ID: m.ID, Weight: m.Weight},
	}
}

// Update advances the gesture clock by elapsed and returns a request for the
// pointer position when one is due.
func (b *Brush) Update(elapsed time.Duration, x, y float64, area Rect) (sand.SpawnRequest, bool) {
	if !b.held {
		return sand.SpawnRequest{}, false
	}
	if b.primed {
		b.primed = false
		b.elapsed = 0
		u, v := area.UV(x, y)
		return b.Request(u, v), true
	}
	b.elapsed += elapsed
	if b.elapsed < b.Interval {
		return sand.SpawnRequest{}, false
	}
	b.elapsed = 0
	u, v := area.UV(x, y)
	return b.Request(u, v), true
}

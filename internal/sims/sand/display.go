package sand

import "sandfall/internal/catalog"

func displayValue(c Cell) uint8 {
	if c.Material <= 0 {
		return 0
	}
	if c.Material > catalog.MaxID {
		return catalog.MaxID
	}
	return uint8(c.Material)
}

// rebuildDisplay flips the grid vertically so row 0 of the display buffer is
// the top of the grid.
func (e *Engine) rebuildDisplay() {
	g := e.grid
	if g == nil {
		return
	}
	dim := g.dim()
	for y := 0; y < dim; y++ {
		src := g.front[y*dim : (y+1)*dim]
		dst := e.display[(dim-1-y)*dim : (dim-y)*dim]
		for x, c := range src {
			dst[x] = displayValue(c)
		}
	}
}

// Count returns the number of occupied cells in the committed buffer.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid == nil {
		return 0
	}
	return occupied(e.grid.front)
}

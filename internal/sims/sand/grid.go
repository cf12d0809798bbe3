package sand

import (
	"fmt"

	"sandfall/internal/core"
)

// Cell is the state of one grid position. Material 0 is empty. Settled marks
// a cell that received material during the current update pass; it is
// cleared before the step completes.
type Cell struct {
	Material int32
	Weight   int32
	Settled  bool
}

// Empty reports whether the cell holds no material.
func (c Cell) Empty() bool { return c.Material == 0 }

// grid owns the two cell buffers. front is the committed state; back is the
// scratch buffer every pass writes into.
type grid struct {
	size    core.Size
	workers int
	front   []Cell
	back    []Cell
}

func validDimension(dim int) bool {
	return dim > 0 && dim%core.WorkGroupSize == 0
}

func newGrid(dim, workers int) (*grid, error) {
	if !validDimension(dim) {
		return nil, fmt.Errorf("%w: %d is not a positive multiple of %d", ErrInvalidDimension, dim, core.WorkGroupSize)
	}
	total := dim * dim
	return &grid{
		size:    core.Size{W: dim, H: dim},
		workers: workers,
		front:   make([]Cell, total),
		back:    make([]Cell, total),
	}, nil
}

func (g *grid) dim() int { return g.size.W }

func (g *grid) dispatch(kernel func(x, y int)) error {
	return core.Dispatch(g.size, g.workers, kernel)
}

// clear zero-fills the back buffer.
func (g *grid) clear() error {
	return g.dispatch(func(x, y int) {
		g.back[g.size.Index(x, y)] = Cell{}
	})
}

// commit copies the back buffer into the front buffer cell for cell.
func (g *grid) commit() error {
	return g.dispatch(func(x, y int) {
		i := g.size.Index(x, y)
		g.front[i] = g.back[i]
	})
}

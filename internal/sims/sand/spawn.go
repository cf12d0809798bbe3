package sand

import "math"

// MaterialRef is the value a spawn request carries for the material to place.
// An ID of zero means no material.
type MaterialRef struct {
	ID     int32
	Weight int32
}

// SpawnRequest asks the next Step to fill the empty cells of a disc with a
// material. U and V are normalized grid coordinates with (0, 0) at the
// bottom-left corner.
type SpawnRequest struct {
	U, V     float64
	Radius   int
	Material MaterialRef
}

func (r SpawnRequest) validate() error {
	if r.Radius < 1 {
		return ErrInvalidSpawnRequest
	}
	if r.Material.ID <= 0 {
		return ErrInvalidSpawnRequest
	}
	if !unit(r.U) || !unit(r.V) {
		return ErrInvalidSpawnRequest
	}
	return nil
}

func unit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// spawnDisc is a spawn request resolved against a concrete grid.
type spawnDisc struct {
	active bool
	cx, cy int
	// limit2 is the squared distance bound, ((radius-1)/2)^2.
	limit2 float64
	cell   Cell
}

func resolveSpawn(r SpawnRequest, dim int) spawnDisc {
	limit := float64(r.Radius-1) / 2
	return spawnDisc{
		active: true,
		cx:     denormalize(r.U, dim),
		cy:     denormalize(r.V, dim),
		limit2: limit * limit,
		cell:   Cell{Material: r.Material.ID, Weight: r.Material.Weight, Settled: true},
	}
}

func (d spawnDisc) covers(x, y int) bool {
	if !d.active {
		return false
	}
	dx := float64(x - d.cx)
	dy := float64(y - d.cy)
	return dx*dx+dy*dy <= d.limit2
}

func denormalize(v float64, dim int) int {
	c := int(math.Floor(v * float64(dim)))
	if c < 0 {
		return 0
	}
	if c >= dim {
		return dim - 1
	}
	return c
}

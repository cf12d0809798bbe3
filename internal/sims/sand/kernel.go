package sand

import "sandfall/internal/core"

// diagonalSalt separates the destination tie-break stream from the source
// side choice so the two never correlate.
const diagonalSalt = 0x5bd1e995

// updatePass evaluates the transition rule. Every output cell is computed
// from front alone, so cells can be evaluated in any order or in parallel:
// a cell never writes its neighbours, it pulls material from them instead.
type updatePass struct {
	size  core.Size
	front []Cell
	back  []Cell
	tick  uint64
	salt  int64
	spawn spawnDisc
}

func (p *updatePass) empty(x, y int) bool {
	return p.size.Contains(x, y) && p.front[p.size.Index(x, y)].Empty()
}

// spawns reports whether (x, y) is filled by the active spawn this pass.
func (p *updatePass) spawns(x, y int) bool {
	return p.spawn.covers(x, y) && p.empty(x, y)
}

// intent returns the destination the material at (x, y) tries to move into:
// straight down when possible, otherwise one free lower diagonal.
func (p *updatePass) intent(x, y int) (int, int, bool) {
	if p.empty(x, y) {
		return 0, 0, false
	}
	if p.empty(x, y-1) {
		return x, y - 1, true
	}
	left := p.empty(x-1, y-1)
	right := p.empty(x+1, y-1)
	switch {
	case left && right:
		if core.Hash(x, y, p.tick, p.salt)&1 == 0 {
			return x - 1, y - 1, true
		}
		return x + 1, y - 1, true
	case left:
		return x - 1, y - 1, true
	case right:
		return x + 1, y - 1, true
	}
	return 0, 0, false
}

func (p *updatePass) targets(sx, sy, x, y int) bool {
	if !p.size.Contains(sx, sy) {
		return false
	}
	tx, ty, ok := p.intent(sx, sy)
	return ok && tx == x && ty == y
}

// source picks the single cell whose material flows into the empty cell
// (x, y). The cell directly above has priority over the diagonals.
func (p *updatePass) source(x, y int) (int, int, bool) {
	if p.spawns(x, y) {
		return 0, 0, false
	}
	if p.targets(x, y+1, x, y) {
		return x, y + 1, true
	}
	fromLeft := p.targets(x-1, y+1, x, y)
	fromRight := p.targets(x+1, y+1, x, y)
	switch {
	case fromLeft && fromRight:
		if core.Hash(x, y, p.tick, p.salt^diagonalSalt)&1 == 0 {
			return x - 1, y + 1, true
		}
		return x + 1, y + 1, true
	case fromLeft:
		return x - 1, y + 1, true
	case fromRight:
		return x + 1, y + 1, true
	}
	return 0, 0, false
}

// update writes the next state of (x, y) into back.
func (p *updatePass) update(x, y int) {
	i := p.size.Index(x, y)
	cur := p.front[i]

	if cur.Empty() {
		if p.spawn.covers(x, y) {
			p.back[i] = p.spawn.cell
			return
		}
		if sx, sy, ok := p.source(x, y); ok {
			moved := p.front[p.size.Index(sx, sy)]
			moved.Settled = true
			p.back[i] = moved
			return
		}
		p.back[i] = cur
		return
	}

	if tx, ty, ok := p.intent(x, y); ok {
		if sx, sy, pulled := p.source(tx, ty); pulled && sx == x && sy == y {
			p.back[i] = Cell{}
			return
		}
	}
	p.back[i] = cur
}

// resetSettled copies (x, y) from front to back with the settled marker
// cleared.
func resetSettled(g *grid, x, y int) {
	i := g.size.Index(x, y)
	c := g.front[i]
	g.back[i] = Cell{Material: c.Material, Weight: c.Weight}
}

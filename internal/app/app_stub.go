//go:build !ebiten

package app

import "errors"

// ErrHeadless is returned by the GUI entry points in builds without ebiten.
var ErrHeadless = errors.New("app: the GUI requires building with the 'ebiten' tag")

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrHeadless }

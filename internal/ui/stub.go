//go:build !ebiten

// Package ui holds the ebiten HUD and overlay. Headless builds get no-op
// placeholders.
package ui

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// Overlay is a no-op placeholder for headless builds.
type Overlay struct{}

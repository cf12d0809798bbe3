package stream

import (
	"fmt"

	"sandfall/internal/catalog"
)

// Message types exchanged over the socket.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
	TypeSpawn = "spawn"
	TypeReset = "reset"
)

// MaterialInfo describes one paintable material to a client.
type MaterialInfo struct {
	Name  string `json:"name"`
	ID    int32  `json:"id"`
	Color string `json:"color"`
}

// Hello is the first message a client receives.
type Hello struct {
	Type      string         `json:"type"`
	Dimension int            `json:"dimension"`
	Materials []MaterialInfo `json:"materials"`
	// Palette holds "#rrggbb" colours indexed by cell value.
	Palette []string `json:"palette"`
}

// Frame carries one display buffer, top row first. Cells is encoded as
// base64 by encoding/json.
type Frame struct {
	Type      string `json:"type"`
	Iteration uint64 `json:"iteration"`
	Dimension int    `json:"dimension"`
	Cells     []byte `json:"cells"`
}

// Message is a client request.
type Message struct {
	Type     string  `json:"type"`
	U        float64 `json:"u"`
	V        float64 `json:"v"`
	Material string  `json:"material"`
	// Radius of zero uses the engine's configured spawn radius.
	Radius int   `json:"radius"`
	Seed   int64 `json:"seed"`
}

func newHello(dim int, materials *catalog.Catalog) Hello {
	h := Hello{Type: TypeHello, Dimension: dim}
	for _, m := range materials.Materials() {
		h.Materials = append(h.Materials, MaterialInfo{Name: m.Name, ID: m.ID, Color: hexColor(m.Color.R, m.Color.G, m.Color.B)})
	}
	for _, c := range materials.Palette() {
		h.Palette = append(h.Palette, hexColor(c.R, c.G, c.B))
	}
	return h
}

func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

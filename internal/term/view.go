// Package term renders the sand grid in a terminal and turns key and mouse
// events into engine input.
package term

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// halfBlock draws the upper grid row in the foreground colour and the lower
// one in the background colour, so one text row shows two grid rows.
const halfBlock = '▀'

// View paints a display buffer onto a tcell screen.
type View struct {
	screen  tcell.Screen
	palette []tcell.Color
}

// NewView converts palette into terminal colours.
func NewView(screen tcell.Screen, palette []color.RGBA) *View {
	v := &View{screen: screen, palette: make([]tcell.Color, len(palette))}
	for i, c := range palette {
		v.palette[i] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return v
}

// Rows returns the number of text rows a grid of height h occupies.
func Rows(h int) int { return (h + 1) / 2 }

func (v *View) color(value uint8) tcell.Color {
	if len(v.palette) == 0 {
		return tcell.ColorBlack
	}
	i := int(value)
	if i >= len(v.palette) {
		i = len(v.palette) - 1
	}
	return v.palette[i]
}

// Draw paints cells (w*h, top row first) and a status line beneath them.
func (v *View) Draw(cells []uint8, w, h int, status string) {
	v.screen.Clear()
	rows := Rows(h)
	for ty := 0; ty < rows; ty++ {
		top := 2 * ty
		bottom := top + 1
		for x := 0; x < w; x++ {
			fg := v.color(cells[top*w+x])
			bg := tcell.ColorBlack
			if bottom < h {
				bg = v.color(cells[bottom*w+x])
			}
			v.screen.SetContent(x, ty, halfBlock, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range []rune(status) {
		v.screen.SetContent(i, rows, r, nil, style)
	}
	v.screen.Show()
}

//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"sandfall/internal/catalog"
	"sandfall/internal/core"
	"sandfall/internal/input"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the material picker and parameter panel to the right of the
// simulation view.
type HUD struct {
	sim       core.Sim
	brush     *input.Brush
	materials []catalog.Material
	width     int

	panel      *ebiten.Image
	pixel      *ebiten.Image
	lastHeight int

	swatches     []image.Rectangle
	controls     []controlState
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int
}

type controlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, brush *input.Brush, materials *catalog.Catalog, width int) *HUD {
	h := &HUD{sim: sim, brush: brush, materials: materials.Materials(), width: max(width, 0)}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, controlState{control: ctrl, value: "--"})
		}
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	h.layout()
	return h
}

// Update refreshes control values and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	h.panelOffsetX = panelOffsetX
	if provider, ok := h.sim.(core.ParameterProvider); ok {
		h.refresh(provider.Parameters())
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i, r := range h.swatches {
		if pointInRect(px, my, r) {
			h.brush.Select(h.materials[i].Name)
			return
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.adjust(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.adjust(state, 1)
			return
		}
	}
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	text.Draw(h.panel, "Sand Controls", face, panelPadding, panelPadding+headerBaseline, labelColor)

	selected := h.brush.Material().ID
	for i, m := range h.materials {
		r := h.swatches[i]
		if m.ID == selected {
			h.fillRect(r.Inset(-2), color.RGBA{R: 240, G: 240, B: 250, A: 255})
		}
		h.fillRect(r, m.Color)
		text.Draw(h.panel, m.Name, face, r.Max.X+buttonGap, r.Min.Y+labelBaseline-6, labelColor)
	}

	for i := range h.controls {
		state := &h.controls[i]
		y := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, y, labelColor)
		valueColor := labelColor
		if !state.hasValue {
			valueColor = dimColor
		}
		bounds := text.BoundString(face, state.value)
		text.Draw(h.panel, state.value, face, state.minusRect.Min.X-buttonGap-bounds.Dx(), y, valueColor)
		h.drawButton(state.minusRect, "-", state.hasValue && h.canAdjust(state, -1))
		h.drawButton(state.plusRect, "+", state.hasValue && h.canAdjust(state, 1))
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refresh(snapshot core.ParameterSnapshot) {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := snapshot.Lookup(state.control.Key)
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				continue
			}
			state.intValue = parsed
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			state.floatValue = parsed
			state.value = strconv.FormatFloat(parsed, 'f', 2, 64)
			state.hasValue = true
		}
	}
}

// target computes the value one click in direction would produce and
// whether it stays inside the control's bounds.
func (h *HUD) target(state *controlState, direction int) (float64, bool) {
	step := state.control.Step
	if step <= 0 {
		step = 1
	}
	next := state.floatValue + float64(direction)*step
	if state.control.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	if state.control.HasMin && next < state.control.Min {
		if direction < 0 && state.floatValue <= state.control.Min {
			return 0, false
		}
		next = state.control.Min
	}
	if state.control.HasMax && next > state.control.Max {
		if direction > 0 && state.floatValue >= state.control.Max {
			return 0, false
		}
		next = state.control.Max
	}
	return next, true
}

func (h *HUD) canAdjust(state *controlState, direction int) bool {
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return false
		}
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return false
		}
	default:
		return false
	}
	_, ok := h.target(state, direction)
	return ok
}

func (h *HUD) adjust(state *controlState, direction int) {
	if !h.canAdjust(state, direction) {
		return
	}
	next, _ := h.target(state, direction)
	switch state.control.Type {
	case core.ParamTypeInt:
		h.intSetter.SetIntParameter(state.control.Key, int(next))
	case core.ParamTypeFloat:
		h.floatSetter.SetFloatParameter(state.control.Key, next)
	}
}

func (h *HUD) fillRect(r image.Rectangle, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = dimColor
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layout() {
	top := panelPadding + headerBaseline + 14
	h.swatches = make([]image.Rectangle, len(h.materials))
	for i := range h.materials {
		y := top + i*swatchPitch
		h.swatches[i] = image.Rect(panelPadding, y, panelPadding+swatchSize, y+swatchSize)
	}
	top += len(h.materials)*swatchPitch + sectionGap
	for i := range h.controls {
		row := top + i*lineHeight
		buttonY := row + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = row
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

var (
	labelColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	swatchSize     = 18
	swatchPitch    = 24
	sectionGap     = 12
)

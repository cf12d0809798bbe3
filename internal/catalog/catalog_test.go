package catalog

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseOrdersByIDAndKeepsColors(t *testing.T) {
	c, err := Parse("stone=4:5:#787880, sand=1:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mats := c.Materials()
	if len(mats) != 2 || mats[0].Name != "sand" || mats[1].Name != "stone" {
		t.Fatalf("unexpected order: %+v", mats)
	}
	stone, ok := c.Lookup("stone")
	if !ok {
		t.Fatal("expected stone to be registered")
	}
	if stone.ID != 4 || stone.Weight != 5 {
		t.Fatalf("unexpected stone entry %+v", stone)
	}
	if stone.Color != (color.RGBA{R: 0x78, G: 0x78, B: 0x80, A: 255}) {
		t.Fatalf("unexpected stone color %+v", stone.Color)
	}
	if sand, _ := c.Lookup("sand"); sand.Color.A == 0 {
		t.Fatal("expected a fallback color for sand")
	}
}

func TestParseRejectsInvalidDefinitions(t *testing.T) {
	cases := []string{
		"",
		"sand",
		"sand=1",
		"sand=x:1",
		"sand=1:y",
		"sand=0:1",
		"sand=256:1",
		"sand=1:-1",
		"sand=1:1,sand=2:1",
		"sand=1:1,dust=1:1",
		"sand=1:1:#zzzzzz",
	}
	for _, spec := range cases {
		if _, err := Parse(spec); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Parse(%q): expected ErrMalformed, got %v", spec, err)
		}
	}
}

func TestPaletteIndexedByID(t *testing.T) {
	c := Default()
	palette := c.Palette()
	if palette[0] != Background {
		t.Fatalf("expected background at index 0, got %+v", palette[0])
	}
	for _, m := range c.Materials() {
		if palette[m.ID] != m.Color {
			t.Fatalf("palette[%d]=%+v, want %+v", m.ID, palette[m.ID], m.Color)
		}
	}
}

func TestByIDAndAtWrap(t *testing.T) {
	c := Default()
	if m, ok := c.ByID(4); !ok || m.Name != "stone" {
		t.Fatalf("ByID(4)=%+v,%v", m, ok)
	}
	if _, ok := c.ByID(99); ok {
		t.Fatal("expected unknown id to be absent")
	}
	if c.At(-1).ID != c.At(c.Len()-1).ID {
		t.Fatal("expected At to wrap negative indexes")
	}
	if c.Index("clay") < 0 || c.Index("lava") != -1 {
		t.Fatal("unexpected Index results")
	}
}

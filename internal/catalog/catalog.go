// Package catalog holds the named materials a user can spawn into the grid.
// Entries are immutable once the catalog is built.
package catalog

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"
)

// MaxID is the largest material ID; display buffers store IDs in one byte.
const MaxID = 255

// ErrMalformed reports a catalog definition that could not be parsed.
var ErrMalformed = errors.New("catalog: malformed definition")

// Material binds a human-chosen name to a numeric material ID and weight.
type Material struct {
	Name   string
	ID     int32
	Weight int32
	Color  color.RGBA
}

// Catalog is an ordered, read-only set of materials.
type Catalog struct {
	materials []Material
	byName    map[string]int
}

// New validates the provided materials and builds a catalog ordered by ID.
func New(materials []Material) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(materials))}
	ids := map[int32]string{}
	for _, m := range materials {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: material without a name", ErrMalformed)
		}
		if m.ID <= 0 || m.ID > MaxID {
			return nil, fmt.Errorf("%w: material %q has id %d outside 1..%d", ErrMalformed, m.Name, m.ID, MaxID)
		}
		if m.Weight < 0 {
			return nil, fmt.Errorf("%w: material %q has negative weight", ErrMalformed, m.Name)
		}
		if _, dup := c.byName[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrMalformed, m.Name)
		}
		if other, dup := ids[m.ID]; dup {
			return nil, fmt.Errorf("%w: materials %q and %q share id %d", ErrMalformed, other, m.Name, m.ID)
		}
		ids[m.ID] = m.Name
		if m.Color.A == 0 {
			m.Color = fallbackColor(m.ID)
		}
		c.byName[m.Name] = -1
		c.materials = append(c.materials, m)
	}
	slices.SortFunc(c.materials, func(a, b Material) int { return int(a.ID - b.ID) })
	for i, m := range c.materials {
		c.byName[m.Name] = i
	}
	return c, nil
}

// Default returns the built-in material set.
func Default() *Catalog {
	c, err := New([]Material{
		{Name: "sand", ID: 1, Weight: 1, Color: color.RGBA{R: 230, G: 196, B: 110, A: 255}},
		{Name: "dust", ID: 2, Weight: 1, Color: color.RGBA{R: 196, G: 186, B: 170, A: 255}},
		{Name: "clay", ID: 3, Weight: 2, Color: color.RGBA{R: 170, G: 96, B: 64, A: 255}},
		{Name: "stone", ID: 4, Weight: 4, Color: color.RGBA{R: 120, G: 120, B: 128, A: 255}},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from a comma separated list of
// name=id:weight[:#rrggbb] entries, e.g. "sand=1:1:#e6c46e,stone=4:4".
func Parse(spec string) (*Catalog, error) {
	var materials []Material
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is missing '='", ErrMalformed, entry)
		}
		fields := strings.Split(rest, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: %q must be name=id:weight[:#rrggbb]", ErrMalformed, entry)
		}
		id, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q id: %v", ErrMalformed, entry, err)
		}
		weight, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q weight: %v", ErrMalformed, entry, err)
		}
		m := Material{Name: strings.TrimSpace(name), ID: int32(id), Weight: int32(weight)}
		if len(fields) == 3 {
			col, err := parseHexColor(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%w: %q color: %v", ErrMalformed, entry, err)
			}
			m.Color = col
		}
		materials = append(materials, m)
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("%w: no materials defined", ErrMalformed)
	}
	return New(materials)
}

// Lookup returns the material registered under name.
func (c *Catalog) Lookup(name string) (Material, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Material{}, false
	}
	return c.materials[i], true
}

// ByID returns the material with the given ID.
func (c *Catalog) ByID(id int32) (Material, bool) {
	i, ok := slices.BinarySearchFunc(c.materials, id, func(m Material, id int32) int { return int(m.ID - id) })
	if !ok {
		return Material{}, false
	}
	return c.materials[i], true
}

// Materials returns the catalog entries ordered by ID.
func (c *Catalog) Materials() []Material {
	return slices.Clone(c.materials)
}

// Len reports the number of materials.
func (c *Catalog) Len() int { return len(c.materials) }

// At returns the i-th material in ID order, wrapping around the catalog.
func (c *Catalog) At(i int) Material {
	n := len(c.materials)
	return c.materials[((i%n)+n)%n]
}

// Index returns the position of name in ID order, or -1.
func (c *Catalog) Index(name string) int {
	i, ok := c.byName[name]
	if !ok {
		return -1
	}
	return i
}

// Palette returns a colour table indexed by material ID. Index 0 is the
// empty-cell background; IDs not present in the catalog map to their
// fallback colour.
func (c *Catalog) Palette() []color.RGBA {
	size := 1
	if n := len(c.materials); n > 0 {
		size = int(c.materials[n-1].ID) + 1
	}
	palette := make([]color.RGBA, size)
	palette[0] = Background
	for id := 1; id < size; id++ {
		palette[id] = fallbackColor(int32(id))
	}
	for _, m := range c.materials {
		palette[m.ID] = m.Color
	}
	return palette
}

// Background is the colour of empty cells.
var Background = color.RGBA{R: 12, G: 12, B: 18, A: 255}

func fallbackColor(id int32) color.RGBA {
	h := uint32(id) * 2654435761
	return color.RGBA{R: 96 + uint8(h>>24)%128, G: 96 + uint8(h>>16)%128, B: 96 + uint8(h>>8)%128, A: 255}
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("want #rrggbb, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

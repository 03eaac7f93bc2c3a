// Package palette maps elemental types to colors.
//
// Colors are looked up per sub-type, so a compound key such as "Fire/Flying"
// resolves to two independent entries. A type missing from the table yields
// an empty color rather than an error.
package palette

import (
	_ "embed"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

//go:embed colors.json
var defaultColorsJSON []byte

// Separator joins the two type names of a compound key.
const Separator = "/"

// ColorPair holds the colors of the two halves of a ring. For a single type
// both entries are equal.
type ColorPair struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Single reports whether both halves share the same color.
func (c ColorPair) Single() bool { return c.Primary == c.Secondary }

// Palette is an immutable type→color table.
type Palette struct {
	colors map[string]string
}

// New builds a palette from a type→color map. The map is copied.
func New(colors map[string]string) Palette {
	return Palette{colors: maps.Clone(colors)}
}

// Default returns the standard Gen 1 type colors.
func Default() Palette {
	var colors map[string]string
	if err := json.Unmarshal(defaultColorsJSON, &colors); err != nil {
		panic("palette: bundled colors are invalid: " + err.Error())
	}
	return Palette{colors: colors}
}

// With returns a copy of p with overrides applied on top.
func (p Palette) With(overrides map[string]string) Palette {
	merged := maps.Clone(p.colors)
	if merged == nil {
		merged = make(map[string]string, len(overrides))
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return Palette{colors: merged}
}

// Color returns the color of a single type, or "" if unknown.
func (p Palette) Color(typeName string) string {
	return p.colors[typeName]
}

// ColorOf returns the ring colors for a type key. "Fire" gives (Fire, Fire);
// "Fire/Flying" gives (Fire, Flying) in key order.
func (p Palette) ColorOf(key string) ColorPair {
	if first, second, ok := strings.Cut(key, Separator); ok {
		return ColorPair{Primary: p.colors[first], Secondary: p.colors[second]}
	}
	c := p.colors[key]
	return ColorPair{Primary: c, Secondary: c}
}

// Types lists the known type names in sorted order.
func (p Palette) Types() []string {
	return slices.Sorted(maps.Keys(p.colors))
}

// Map returns a copy of the underlying table.
func (p Palette) Map() map[string]string {
	return maps.Clone(p.colors)
}

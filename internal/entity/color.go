package entity

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an entity or layer color: a "#rrggbb" hex value, one of the
// palette names below, or the ByLayer sentinel deferring to the layer.
type Color string

// ByLayer defers an entity's color to its layer.
const ByLayer Color = "BYLAYER"

// aciEntry ties an AutoCAD Color Index to its RGB value and name.
type aciEntry struct {
	Index int
	Name  string
	Hex   string
}

// aciTable is the fixed palette used for DXF color round-tripping.
var aciTable = []aciEntry{
	{0, "black", "#000000"},
	{1, "red", "#ff0000"},
	{2, "yellow", "#ffff00"},
	{3, "green", "#00ff00"},
	{4, "cyan", "#00ffff"},
	{5, "blue", "#0000ff"},
	{6, "magenta", "#ff00ff"},
	{7, "white", "#ffffff"},
	{8, "gray", "#808080"},
	{9, "lightgray", "#c0c0c0"},
}

// ACIByLayer is the DXF color code meaning "by layer".
const ACIByLayer = 256

// IsByLayer reports whether the color defers to the layer.
func (c Color) IsByLayer() bool {
	return strings.EqualFold(string(c), string(ByLayer)) || c == ""
}

// ParseColor normalizes a color string: the ByLayer sentinel (any
// case), a palette name, or a "#rrggbb" hex value.
func ParseColor(s string) (Color, error) {
	if strings.EqualFold(s, string(ByLayer)) {
		return ByLayer, nil
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, e := range aciTable {
		if lower == e.Name {
			return Color(e.Hex), nil
		}
	}
	if _, err := colorful.Hex(lower); err != nil {
		return "", fmt.Errorf("entity: invalid color %q: %w", s, err)
	}
	return Color(lower), nil
}

// RGB resolves the color to its components in [0, 1]. The ByLayer
// sentinel has no components of its own and reports ok=false.
func (c Color) RGB() (r, g, b float64, ok bool) {
	if c.IsByLayer() {
		return 0, 0, 0, false
	}
	parsed, err := colorful.Hex(string(c))
	if err != nil {
		return 0, 0, 0, false
	}
	return parsed.R, parsed.G, parsed.B, true
}

// Resolve substitutes the layer color for the ByLayer sentinel.
func (c Color) Resolve(layerColor Color) Color {
	if c.IsByLayer() {
		return layerColor
	}
	return c
}

// NearestACI quantizes the color to the palette index with the smallest
// RGB distance. ByLayer maps to the DXF by-layer code.
func NearestACI(c Color) int {
	if c.IsByLayer() {
		return ACIByLayer
	}
	target, err := colorful.Hex(string(c))
	if err != nil {
		return 7 // unparseable colors export as white
	}
	best := aciTable[0].Index
	bestDist := -1.0
	for _, e := range aciTable {
		pal, _ := colorful.Hex(e.Hex)
		d := target.DistanceRgb(pal)
		if bestDist < 0 || d < bestDist {
			best, bestDist = e.Index, d
		}
	}
	return best
}

// FromACI returns the palette color for a DXF color index. The by-layer
// code maps to the ByLayer sentinel; indices outside the palette fall
// back to white.
func FromACI(index int) Color {
	if index == ACIByLayer {
		return ByLayer
	}
	for _, e := range aciTable {
		if e.Index == index {
			return Color(e.Hex)
		}
	}
	return Color("#ffffff")
}

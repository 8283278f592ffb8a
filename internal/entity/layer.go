package entity

import "github.com/draftsmith/draftsmith/internal/geom"

// DefaultLayerName is the layer every drawing starts with. It can never
// be deleted.
const DefaultLayerName = "0"

// Layer groups entities under shared visibility, lock state and
// default styling. Entities reference layers by name.
type Layer struct {
	ID         string
	Name       string
	Color      Color
	LineType   string
	LineWeight float64
	Visible    bool
	Locked     bool
	Frozen     bool
	Plot       bool
}

// DefaultLayer returns the non-deletable layer "0".
func DefaultLayer() Layer {
	return Layer{
		ID:         DefaultLayerName,
		Name:       DefaultLayerName,
		Color:      Color("#ffffff"),
		LineType:   "continuous",
		LineWeight: 0.25,
		Visible:    true,
		Plot:       true,
	}
}

// Clone returns a copy of the layer.
func (l Layer) Clone() Layer {
	return l
}

// BlockDef is a named group of entities stored relative to a base
// point. BLOCK_REFERENCE entities insert it by name.
type BlockDef struct {
	ID        string
	Name      string
	BasePoint geom.Point
	Entities  []Entity
}

// Clone returns a deep copy of the block definition.
func (b BlockDef) Clone() BlockDef {
	c := b
	c.Entities = make([]Entity, len(b.Entities))
	for i, e := range b.Entities {
		c.Entities[i] = e.Clone()
	}
	return c
}

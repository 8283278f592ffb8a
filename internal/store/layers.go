package store

import (
	"fmt"

	"github.com/draftsmith/draftsmith/internal/entity"
)

// Layers returns the layer table in order. The returned slice is a
// fresh copy.
func (s *Store) Layers() []entity.Layer {
	out := make([]entity.Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Clone()
	}
	return out
}

// Layer returns the named layer.
func (s *Store) Layer(name string) (entity.Layer, bool) {
	pos, ok := s.findLayer(name)
	if !ok {
		return entity.Layer{}, false
	}
	return s.layers[pos].Clone(), true
}

// ActiveLayer returns the name of the layer new entities land on.
func (s *Store) ActiveLayer() string {
	return s.activeLayer
}

// SetActiveLayer switches the active layer.
func (s *Store) SetActiveLayer(name string) error {
	if _, ok := s.findLayer(name); !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	s.activeLayer = name
	return nil
}

// AddLayer appends a layer to the table. An empty color defaults to
// white and the layer starts visible and plottable.
func (s *Store) AddLayer(l entity.Layer) error {
	if l.Name == "" {
		return fmt.Errorf("%w: layer name must not be empty", ErrLayerNotFound)
	}
	if _, ok := s.findLayer(l.Name); ok {
		return fmt.Errorf("%w: %q", ErrLayerExists, l.Name)
	}
	if l.ID == "" {
		l.ID = l.Name
	}
	if l.Color == "" {
		l.Color = entity.Color("#ffffff")
	}
	if l.LineType == "" {
		l.LineType = s.lineType
	}
	if l.LineWeight == 0 {
		l.LineWeight = s.lineWeight
	}
	l.Visible = true
	l.Plot = true
	next := make([]entity.Layer, len(s.layers), len(s.layers)+1)
	copy(next, s.layers)
	s.layers = append(next, l)
	s.logger.Debug("added layer %q", l.Name)
	return nil
}

// UpdateLayer replaces the named layer's stored version with a mutated
// clone. The layer name may not change through this path.
func (s *Store) UpdateLayer(name string, mutate func(*entity.Layer)) error {
	pos, ok := s.findLayer(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	l := s.layers[pos].Clone()
	mutate(&l)
	l.Name = name
	next := make([]entity.Layer, len(s.layers))
	copy(next, s.layers)
	next[pos] = l
	s.layers = next
	return nil
}

// DeleteLayer removes a layer. Layer "0" and the last remaining layer
// are protected. Entities on the deleted layer are reassigned to "0".
func (s *Store) DeleteLayer(name string) error {
	if name == entity.DefaultLayerName {
		return fmt.Errorf("%w: layer %q", ErrLayerProtected, name)
	}
	pos, ok := s.findLayer(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	if len(s.layers) == 1 {
		return fmt.Errorf("%w: last remaining layer", ErrLayerProtected)
	}

	next := make([]entity.Layer, 0, len(s.layers)-1)
	next = append(next, s.layers[:pos]...)
	next = append(next, s.layers[pos+1:]...)
	s.layers = next

	if s.activeLayer == name {
		s.activeLayer = entity.DefaultLayerName
	}

	// Orphaned entities move to the default layer.
	moved := 0
	nextEnts := make([]entity.Entity, len(s.entities))
	for i, e := range s.entities {
		if e.Layer == name {
			c := e.Clone()
			c.Layer = entity.DefaultLayerName
			nextEnts[i] = c
			moved++
			continue
		}
		nextEnts[i] = e
	}
	s.entities = nextEnts
	if moved > 0 {
		s.logger.Info("layer %q deleted, %d entities moved to %q", name, moved, entity.DefaultLayerName)
	}
	return nil
}

// LayerLocked reports whether the named layer is locked. Unknown
// layers report unlocked.
func (s *Store) LayerLocked(name string) bool {
	return s.layerLocked(name)
}

// LayerVisible reports whether the named layer is visible and not
// frozen. Unknown layers report visible.
func (s *Store) LayerVisible(name string) bool {
	pos, ok := s.findLayer(name)
	if !ok {
		return true
	}
	l := s.layers[pos]
	return l.Visible && !l.Frozen
}

func (s *Store) layerLocked(name string) bool {
	pos, ok := s.findLayer(name)
	if !ok {
		return false
	}
	return s.layers[pos].Locked
}

func (s *Store) findLayer(name string) (int, bool) {
	for i, l := range s.layers {
		if l.Name == name {
			return i, true
		}
	}
	return 0, false
}

// SetLineType sets the default linetype applied to new entities.
func (s *Store) SetLineType(lt string) {
	if lt != "" {
		s.lineType = lt
	}
}

// SetLineWeight sets the default lineweight applied to new entities.
func (s *Store) SetLineWeight(lw float64) {
	if lw > 0 {
		s.lineWeight = lw
	}
}

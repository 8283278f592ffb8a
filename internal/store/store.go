// Package store holds the authoritative entity collection, the layer
// table and the block definitions of one drawing sheet.
//
// Every mutation is copy-on-write: the entity slice is replaced, never
// edited in place, and a touched entity is cloned before it changes.
// Entities already handed out therefore stay valid forever, which is
// what makes history snapshots plain slice copies.
package store

import (
	"fmt"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/log"
)

// Store owns the ordered entity list of a sheet plus its layer table
// and block definitions. Ids come from a monotonic counter and are
// never reused for the lifetime of the drawing, including across undo.
type Store struct {
	entities []entity.Entity
	index    map[uint64]int
	nextID   uint64

	layers      []entity.Layer
	activeLayer string

	blocks map[string]entity.BlockDef

	lineType   string
	lineWeight float64

	logger *log.Logger
}

// New returns an empty store holding only layer "0".
func New(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Null
	}
	return &Store{
		index:       make(map[uint64]int),
		nextID:      1,
		layers:      []entity.Layer{entity.DefaultLayer()},
		activeLayer: entity.DefaultLayerName,
		blocks:      make(map[string]entity.BlockDef),
		lineType:    "continuous",
		lineWeight:  0.25,
		logger:      logger.WithComponent("store"),
	}
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// Add validates e, assigns the next id and the style defaults
// (visible, unlocked, active layer, BYLAYER color, active linetype and
// lineweight for unset fields) and appends it. The assigned id is
// returned.
func (s *Store) Add(e entity.Entity) (uint64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	e.ID = s.nextID
	s.nextID++
	e.Visible = true
	e.Locked = false
	if e.Layer == "" {
		e.Layer = s.activeLayer
	}
	if e.Color == "" {
		e.Color = entity.ByLayer
	}
	if e.LineType == "" {
		e.LineType = s.lineType
	}
	if e.LineWeight == 0 {
		e.LineWeight = s.lineWeight
	}

	next := make([]entity.Entity, len(s.entities), len(s.entities)+1)
	copy(next, s.entities)
	s.entities = append(next, e)
	s.index[e.ID] = len(s.entities) - 1
	s.logger.Debug("added %s id=%d layer=%s", e.Kind, e.ID, e.Layer)
	return e.ID, nil
}

// Update replaces the entity's stored version with a mutated clone.
// The mutation must leave the entity valid.
func (s *Store) Update(id uint64, mutate func(*entity.Entity)) error {
	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	e := s.entities[pos].Clone()
	mutate(&e)
	e.ID = id // the mutation may not change identity
	if err := e.Validate(); err != nil {
		return err
	}
	next := make([]entity.Entity, len(s.entities))
	copy(next, s.entities)
	next[pos] = e
	s.entities = next
	return nil
}

// Delete removes the given entities. Entities on locked layers are
// retained with a warning; deletion continues for the rest. It returns
// the ids actually removed and one warning per skipped entity.
func (s *Store) Delete(ids []uint64) (deleted []uint64, warnings []string) {
	drop := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		pos, ok := s.index[id]
		if !ok {
			continue
		}
		e := s.entities[pos]
		if s.layerLocked(e.Layer) {
			warnings = append(warnings, fmt.Sprintf("entity %d on locked layer %q not deleted", id, e.Layer))
			s.logger.Warn("delete skipped: entity %d on locked layer %q", id, e.Layer)
			continue
		}
		drop[id] = true
	}
	if len(drop) == 0 {
		return nil, warnings
	}

	next := make([]entity.Entity, 0, len(s.entities)-len(drop))
	for _, e := range s.entities {
		if drop[e.ID] {
			deleted = append(deleted, e.ID)
			continue
		}
		next = append(next, e)
	}
	s.entities = next
	s.reindex()
	return deleted, warnings
}

// Get returns a deep copy of the entity, safe to mutate.
func (s *Store) Get(id uint64) (entity.Entity, bool) {
	pos, ok := s.index[id]
	if !ok {
		return entity.Entity{}, false
	}
	return s.entities[pos].Clone(), true
}

// All returns the entities in insertion order. The returned slice is a
// fresh copy but shares entity internals; callers must treat the
// entities as read-only.
func (s *Store) All() []entity.Entity {
	return append([]entity.Entity(nil), s.entities...)
}

// Snapshot is All under its history-facing name: because stored
// entities are immutable, the shallow copy is a correct point-in-time
// snapshot.
func (s *Store) Snapshot() []entity.Entity {
	return s.All()
}

// Restore replaces the entity list with a snapshot, keeping the id
// counter monotonic so ids removed by an undo are never handed out
// again.
func (s *Store) Restore(entities []entity.Entity) {
	s.entities = append([]entity.Entity(nil), entities...)
	s.reindex()
	for _, e := range s.entities {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
}

// Load replaces the whole drawing content, as when opening a project
// sheet. Ids are kept and the counter resumes after the highest one.
func (s *Store) Load(entities []entity.Entity, layers []entity.Layer, activeLayer string) {
	s.entities = make([]entity.Entity, len(entities))
	for i, e := range entities {
		s.entities[i] = e.Clone()
	}
	s.reindex()
	s.nextID = 1
	for _, e := range s.entities {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}

	if len(layers) > 0 {
		s.layers = ensureDefaultLayer(layers)
	} else {
		s.layers = []entity.Layer{entity.DefaultLayer()}
	}
	if _, ok := s.findLayer(activeLayer); ok {
		s.activeLayer = activeLayer
	} else {
		s.activeLayer = entity.DefaultLayerName
	}
}

func (s *Store) reindex() {
	s.index = make(map[uint64]int, len(s.entities))
	for i, e := range s.entities {
		s.index[e.ID] = i
	}
}

// ensureDefaultLayer guarantees layer "0" is present.
func ensureDefaultLayer(layers []entity.Layer) []entity.Layer {
	out := make([]entity.Layer, 0, len(layers)+1)
	hasDefault := false
	for _, l := range layers {
		if l.Name == entity.DefaultLayerName {
			hasDefault = true
		}
		out = append(out, l.Clone())
	}
	if !hasDefault {
		out = append([]entity.Layer{entity.DefaultLayer()}, out...)
	}
	return out
}

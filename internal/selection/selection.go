// Package selection tracks the selected-entity id set and implements
// pick and box selection against the entity store.
package selection

import (
	"sort"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/store"
)

// Mode selects the box-selection semantics.
type Mode uint8

const (
	// Window selects entities fully contained in the box.
	Window Mode = iota
	// Crossing selects entities contained in or overlapping the box.
	Crossing
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Crossing {
		return "crossing"
	}
	return "window"
}

// ModeFromDrag derives the box-selection mode from drag direction:
// dragging left to right selects by window, right to left by crossing.
func ModeFromDrag(start, end geom.Point) Mode {
	if end.X < start.X {
		return Crossing
	}
	return Window
}

// DefaultPickThreshold is the hit-test distance in world units.
const DefaultPickThreshold = 5.0

// Manager owns the current selection. Ids are unique and unordered;
// the sorted order returned by IDs is for deterministic iteration
// only.
type Manager struct {
	selected map[uint64]bool
	st       *store.Store

	pickThreshold float64
	logger        *log.Logger
}

// New returns an empty selection over the given store.
func New(st *store.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Null
	}
	return &Manager{
		selected:      make(map[uint64]bool),
		st:            st,
		pickThreshold: DefaultPickThreshold,
		logger:        logger.WithComponent("selection"),
	}
}

// SetPickThreshold overrides the hit-test distance.
func (m *Manager) SetPickThreshold(d float64) {
	if d > 0 {
		m.pickThreshold = d
	}
}

// Len returns the number of selected entities.
func (m *Manager) Len() int {
	return len(m.selected)
}

// Has reports whether the entity is selected.
func (m *Manager) Has(id uint64) bool {
	return m.selected[id]
}

// IDs returns the selected ids, sorted ascending.
func (m *Manager) IDs() []uint64 {
	ids := make([]uint64, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Toggle flips the entity's selected state. Newly selecting an entity
// on a locked layer is rejected; deselecting one is always allowed.
func (m *Manager) Toggle(id uint64) bool {
	if m.selected[id] {
		delete(m.selected, id)
		return true
	}
	e, ok := m.st.Get(id)
	if !ok {
		return false
	}
	if e.Locked || m.st.LayerLocked(e.Layer) {
		m.logger.Warn("selection of entity %d on locked layer %q rejected", id, e.Layer)
		return false
	}
	m.selected[id] = true
	return true
}

// Clear empties the selection.
func (m *Manager) Clear() {
	if len(m.selected) > 0 {
		m.selected = make(map[uint64]bool)
	}
}

// SelectAll selects every visible entity not on a locked or hidden
// layer.
func (m *Manager) SelectAll() {
	for _, e := range m.st.All() {
		if !m.selectable(e) {
			continue
		}
		m.selected[e.ID] = true
	}
}

// HitTest returns the nearest entity within the pick threshold of p,
// excluding invisible entities and hidden layers. Locked entities are
// still pickable here; Toggle enforces the lock policy.
func (m *Manager) HitTest(p geom.Point) (uint64, bool) {
	bestID := uint64(0)
	bestDist := m.pickThreshold
	found := false
	for _, e := range m.st.All() {
		if !e.Visible || !m.st.LayerVisible(e.Layer) {
			continue
		}
		d := e.DistanceTo(p)
		if d <= bestDist {
			bestID, bestDist, found = e.ID, d, true
		}
	}
	return bestID, found
}

// BoxSelect replaces the selection with the entities the box captures:
// full containment for Window, containment or overlap for Crossing.
// Locked layers are excluded. It returns the newly selected ids.
func (m *Manager) BoxSelect(min, max geom.Point, mode Mode) []uint64 {
	box := geom.BoxFromCorners(min, max)
	m.selected = make(map[uint64]bool)
	var picked []uint64
	for _, e := range m.st.All() {
		if !m.selectable(e) {
			continue
		}
		in := false
		switch mode {
		case Window:
			in = e.ContainedIn(box)
		case Crossing:
			in = e.ContainedIn(box) || e.IntersectsBox(box)
		}
		if in {
			m.selected[e.ID] = true
			picked = append(picked, e.ID)
		}
	}
	return picked
}

// Restore replaces the selection with the given id set, as when
// undoing. Ids no longer present in the store are dropped.
func (m *Manager) Restore(ids []uint64) {
	m.selected = make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.st.Get(id); ok {
			m.selected[id] = true
		}
	}
}

func (m *Manager) selectable(e entity.Entity) bool {
	if !e.Visible || e.Locked {
		return false
	}
	return m.st.LayerVisible(e.Layer) && !m.st.LayerLocked(e.Layer)
}

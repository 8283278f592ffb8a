// Package history manages the undo/redo stacks of before/after drawing
// snapshots. Because the store is copy-on-write, a snapshot is a plain
// slice copy and restoring one can never corrupt live state.
package history

import (
	"errors"
	"time"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/google/uuid"
)

// History errors.
var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// DefaultMaxItems bounds the undo stack; the oldest item is evicted
// on overflow.
const DefaultMaxItems = 100

// State is one side of a history item: the entity list and the
// selection at a point in time.
type State struct {
	Entities  []entity.Entity
	Selection []uint64
}

// CloneState deep-copies a state so history items never alias caller
// slices.
func CloneState(entities []entity.Entity, selection []uint64) State {
	s := State{
		Entities:  make([]entity.Entity, len(entities)),
		Selection: append([]uint64(nil), selection...),
	}
	for i, e := range entities {
		s.Entities[i] = e.Clone()
	}
	return s
}

// Item records one committed operation.
type Item struct {
	ID      string
	Command string
	Before  State
	After   State
	Time    time.Time
}

// Manager holds the two LIFO stacks.
type Manager struct {
	undo []Item
	redo []Item
	max  int
}

// New returns a manager bounded to maxItems (DefaultMaxItems when
// maxItems <= 0).
func New(maxItems int) *Manager {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Manager{max: maxItems}
}

// Push records an item on the undo stack and clears the redo stack.
// The item id and timestamp are assigned here.
func (m *Manager) Push(command string, before, after State) Item {
	item := Item{
		ID:      uuid.NewString(),
		Command: command,
		Before:  before,
		After:   after,
		Time:    time.Now(),
	}
	m.undo = append(m.undo, item)
	m.redo = nil
	if len(m.undo) > m.max {
		m.undo = m.undo[len(m.undo)-m.max:]
	}
	return item
}

// Undo pops the newest item onto the redo stack and returns it; the
// caller restores the item's Before state.
func (m *Manager) Undo() (Item, error) {
	if len(m.undo) == 0 {
		return Item{}, ErrNothingToUndo
	}
	item := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, item)
	return item, nil
}

// Redo is the mirror of Undo; the caller restores the item's After
// state.
func (m *Manager) Redo() (Item, error) {
	if len(m.redo) == 0 {
		return Item{}, ErrNothingToRedo
	}
	item := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, item)
	return item, nil
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoDepth returns the undo stack size.
func (m *Manager) UndoDepth() int { return len(m.undo) }

// RedoDepth returns the redo stack size.
func (m *Manager) RedoDepth() int { return len(m.redo) }

// Clear drops both stacks, as when loading a new sheet.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

func stateWith(n int) State {
	ents := make([]entity.Entity, n)
	for i := range ents {
		ents[i] = entity.Entity{ID: uint64(i + 1), Kind: entity.KindPoint, Position: geom.Pt(float64(i), 0)}
	}
	return CloneState(ents, nil)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := New(0)
	m.Push("LINE", stateWith(0), stateWith(1))

	if !m.CanUndo() || m.CanRedo() {
		t.Fatalf("after push: CanUndo=%v CanRedo=%v, want true false", m.CanUndo(), m.CanRedo())
	}

	item, err := m.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(item.Before.Entities) != 0 || len(item.After.Entities) != 1 {
		t.Errorf("undo item has before=%d after=%d entities, want 0 and 1",
			len(item.Before.Entities), len(item.After.Entities))
	}
	if !m.CanRedo() {
		t.Fatal("CanRedo false after undo")
	}

	redone, err := m.Redo()
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if redone.ID != item.ID {
		t.Errorf("redo returned item %s, want %s", redone.ID, item.ID)
	}
	if !m.CanUndo() || m.CanRedo() {
		t.Errorf("after redo: CanUndo=%v CanRedo=%v, want true false", m.CanUndo(), m.CanRedo())
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := New(0)
	m.Push("LINE", stateWith(0), stateWith(1))
	m.Push("CIRCLE", stateWith(1), stateWith(2))
	if _, err := m.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	m.Push("ARC", stateWith(1), stateWith(2))
	if m.CanRedo() {
		t.Error("redo available after push, want cleared")
	}
}

func TestEmptyStacks(t *testing.T) {
	m := New(0)
	if _, err := m.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty: err = %v, want ErrNothingToUndo", err)
	}
	if _, err := m.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo on empty: err = %v, want ErrNothingToRedo", err)
	}
}

func TestMaxItemsEvictsOldest(t *testing.T) {
	m := New(3)
	for i := 0; i < 5; i++ {
		m.Push(fmt.Sprintf("OP%d", i), stateWith(i), stateWith(i+1))
	}
	if got := m.UndoDepth(); got != 3 {
		t.Fatalf("UndoDepth = %d, want 3", got)
	}
	// Newest first when unwinding.
	for _, want := range []string{"OP4", "OP3", "OP2"} {
		item, err := m.Undo()
		if err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if item.Command != want {
			t.Errorf("undo order: got %s, want %s", item.Command, want)
		}
	}
}

func TestCloneStateIsolation(t *testing.T) {
	line := entity.NewLine(geom.Pt(0, 0), geom.Pt(1, 0))
	line.Vertices = []geom.Point{geom.Pt(0, 0)}
	s := CloneState([]entity.Entity{line}, []uint64{1})
	line.Vertices[0] = geom.Pt(9, 9)
	if s.Entities[0].Vertices[0].X != 0 {
		t.Error("CloneState shares vertex storage with the source")
	}
}

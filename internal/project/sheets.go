package project

import (
	"errors"
	"fmt"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/session"
)

// ErrSheetNotFound marks operations on an unknown sheet id.
var ErrSheetNotFound = errors.New("project: sheet not found")

// ErrLastSheet guards against deleting the only sheet.
var ErrLastSheet = errors.New("project: cannot delete the last sheet")

// sheetState pairs a sheet's metadata with its live engine session.
type sheetState struct {
	meta Sheet
	sess *session.Session
}

// Sheets manages one engine session per document sheet and the
// active-sheet pointer. Undo history is per sheet: switching sheets
// never mixes histories.
type Sheets struct {
	order    []string
	states   map[string]*sheetState
	activeID string

	logger   *log.Logger
	settings command.Settings
	maxHist  int
}

// NewSheets builds a manager from a loaded document. An empty document
// gets one fresh sheet.
func NewSheets(doc Document, settings command.Settings, maxHistory int, logger *log.Logger) *Sheets {
	if logger == nil {
		logger = log.Null
	}
	m := &Sheets{
		states:   make(map[string]*sheetState),
		logger:   logger.WithComponent("project"),
		settings: settings,
		maxHist:  maxHistory,
	}
	if len(doc.Sheets) == 0 {
		doc.Sheets = []Sheet{NewSheet("Sheet 1")}
		doc.ActiveSheetID = doc.Sheets[0].ID
	}
	for _, s := range doc.Sheets {
		m.addState(s, doc)
	}
	m.activeID = doc.ActiveSheetID
	if _, ok := m.states[m.activeID]; !ok {
		m.activeID = m.order[0]
	}
	return m
}

func (m *Sheets) addState(s Sheet, doc Document) {
	sess := session.New(session.Options{
		Logger:     m.logger,
		MaxHistory: m.maxHist,
		Settings:   m.settings,
	})
	sess.Store().Load(s.Entities, doc.Layers, doc.ActiveLayerID)
	m.states[s.ID] = &sheetState{meta: s, sess: sess}
	m.order = append(m.order, s.ID)
}

// Active returns the session of the active sheet.
func (m *Sheets) Active() *session.Session {
	return m.states[m.activeID].sess
}

// ActiveID returns the active sheet id.
func (m *Sheets) ActiveID() string { return m.activeID }

// Sessions returns every sheet's session in document order.
func (m *Sheets) Sessions() []*session.Session {
	out := make([]*session.Session, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.states[id].sess)
	}
	return out
}

// IDs returns the sheet ids in document order.
func (m *Sheets) IDs() []string {
	return append([]string(nil), m.order...)
}

// Name returns a sheet's display name.
func (m *Sheets) Name(id string) (string, bool) {
	st, ok := m.states[id]
	if !ok {
		return "", false
	}
	return st.meta.Name, true
}

// Activate switches the active sheet. The in-progress command of the
// sheet being left is cancelled so its transient state cannot leak.
func (m *Sheets) Activate(id string) error {
	if _, ok := m.states[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, id)
	}
	if id == m.activeID {
		return nil
	}
	m.states[m.activeID].sess.CancelCommand()
	m.activeID = id
	m.logger.Debug("activated sheet %s", id)
	return nil
}

// Add creates a new empty sheet sharing the document layer table and
// makes it active.
func (m *Sheets) Add(name string) string {
	s := NewSheet(name)
	doc := Document{
		Layers:        m.Active().Store().Layers(),
		ActiveLayerID: m.Active().Store().ActiveLayer(),
	}
	m.addState(s, doc)
	m.activeID = s.ID
	return s.ID
}

// Delete removes a sheet; the last sheet is protected. Deleting the
// active sheet activates the first remaining one.
func (m *Sheets) Delete(id string) error {
	if _, ok := m.states[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, id)
	}
	if len(m.order) == 1 {
		return ErrLastSheet
	}
	delete(m.states, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.activeID == id {
		m.activeID = m.order[0]
	}
	return nil
}

// Document snapshots every sheet into a saveable document. The layer
// table comes from the active sheet's store, which all sheets share on
// load.
func (m *Sheets) Document() Document {
	doc := Document{
		ActiveSheetID: m.activeID,
		Layers:        m.Active().Store().Layers(),
		ActiveLayerID: m.Active().Store().ActiveLayer(),
	}
	for _, id := range m.order {
		st := m.states[id]
		meta := st.meta
		meta.Entities = st.sess.Store().All()
		meta.IsModified = st.sess.History().UndoDepth() > 0
		doc.Sheets = append(doc.Sheets, meta)
	}
	return doc
}

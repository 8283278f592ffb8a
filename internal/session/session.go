// Package session is the command state machine: the single owner of
// the entity store, selection, history and the in-progress command.
// A front end feeds it pointer and value events; it resolves input
// modifiers (object snap, ortho, polar tracking), dispatches to the
// active command handler and restores snapshots on undo/redo.
package session

import (
	"math"
	"sync"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/command/blocks"
	"github.com/draftsmith/draftsmith/internal/command/dims"
	"github.com/draftsmith/draftsmith/internal/command/draw"
	"github.com/draftsmith/draftsmith/internal/command/modify"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
	"github.com/draftsmith/draftsmith/internal/history"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/selection"
	"github.com/draftsmith/draftsmith/internal/store"
)

// polarWindowDeg is the capture window around each polar increment.
const polarWindowDeg = 5.0

// Options configure a session.
type Options struct {
	Logger     *log.Logger
	MaxHistory int
	Settings   command.Settings
}

// Session processes one input event at a time. Events arrive from a
// single front-end goroutine; the mutex guards against accidental
// cross-goroutine use (scripts, watchers), not designed-in parallelism.
type Session struct {
	mu sync.Mutex

	st       *store.Store
	sel      *selection.Manager
	hist     *history.Manager
	bus      *event.Bus
	registry *command.Registry
	logger   *log.Logger
	settings command.Settings

	active command.Handler
	ctx    *command.Context
	prompt string

	osnap bool
	ortho bool
	polar bool
}

// New wires a session with every built-in command registered.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Null
	}
	settings := opts.Settings
	if settings == (command.Settings{}) {
		settings = command.DefaultSettings()
	}
	st := store.New(logger)
	sel := selection.New(st, logger)
	sel.SetPickThreshold(settings.PickThreshold)

	registry := command.NewRegistry()
	draw.Register(registry)
	modify.Register(registry)
	dims.Register(registry)
	blocks.Register(registry)

	return &Session{
		st:       st,
		sel:      sel,
		hist:     history.New(opts.MaxHistory),
		bus:      event.NewBus(logger),
		registry: registry,
		logger:   logger.WithComponent("session"),
		settings: settings,
		osnap:    true,
	}
}

// Store exposes the entity store.
func (s *Session) Store() *store.Store { return s.st }

// Selection exposes the selection manager.
func (s *Session) Selection() *selection.Manager { return s.sel }

// History exposes the undo/redo manager.
func (s *Session) History() *history.Manager { return s.hist }

// Bus exposes the event bus for subscribers.
func (s *Session) Bus() *event.Bus { return s.bus }

// ActiveCommand returns the running command, or command.None.
func (s *Session) ActiveCommand() command.Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return command.None
	}
	return s.ctx.Command
}

// Step returns the current step of the active command, 0 when idle.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return 0
	}
	return s.ctx.Step
}

// TempPoints returns the points collected by the active command.
func (s *Session) TempPoints() []geom.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return append([]geom.Point(nil), s.ctx.Temp...)
}

// PendingPrompt is the input description of the active command.
func (s *Session) PendingPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// StartCommand activates a command, cancelling any running one first
// (which may salvage geometry). Draw commands clear the selection.
func (s *Session) StartCommand(name command.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.cancelLocked()
	}
	handler, err := s.registry.New(name)
	if err != nil {
		return err
	}
	if command.IsDraw(name) && s.sel.Len() > 0 {
		s.sel.Clear()
		s.bus.Publish(event.TopicSelectionChanged, s.sel.IDs())
	}
	s.active = handler
	s.ctx = command.NewContext(name, s.st, s.sel, s.hist, s.bus, s.logger, s.settings)
	s.bus.Publish(event.TopicCommandStarted, string(name))
	s.logger.Debug("start %s", name)
	s.finishLocked(handler.Start(s.ctx))
	return nil
}

// CancelCommand cancels the active command; LINE, POLYLINE and SPLINE
// chains salvage their collected points as an open entity.
func (s *Session) CancelCommand() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Session) cancelLocked() {
	if s.active == nil {
		return
	}
	name := s.ctx.Command
	s.active.Cancel(s.ctx)
	s.active = nil
	s.ctx = nil
	s.prompt = ""
	s.bus.Publish(event.TopicCommandCanceled, string(name))
	s.logger.Debug("cancel %s", name)
}

// OnPoint feeds one pointer click. With no active command it is a
// hit-test selection click: a hit toggles, a miss clears.
func (s *Session) OnPoint(raw geom.Point) command.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		if id, ok := s.sel.HitTest(raw); ok {
			s.sel.Toggle(id)
		} else {
			s.sel.Clear()
		}
		s.bus.Publish(event.TopicSelectionChanged, s.sel.IDs())
		return command.NoOp("")
	}
	res := s.active.OnPoint(s.ctx, s.resolveLocked(raw))
	s.finishLocked(res)
	return res
}

// OnValue feeds one typed value. With no active command the text is
// parsed as a command name and started.
func (s *Session) OnValue(text string) command.Result {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		name, ok := command.Parse(text)
		if !ok {
			return command.NoOp("")
		}
		if err := s.StartCommand(name); err != nil {
			return command.Fail(err)
		}
		return command.Continue(s.PendingPrompt())
	}
	defer s.mu.Unlock()
	res := s.active.OnValue(s.ctx, text)
	s.finishLocked(res)
	return res
}

// BoxSelect applies a drag-rectangle selection: dragging left to right
// selects by containment (window), right to left by overlap (crossing).
func (s *Session) BoxSelect(start, end geom.Point) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := selection.ModeFromDrag(start, end)
	box := geom.BoxFromCorners(start, end)
	ids := s.sel.BoxSelect(box.Min, box.Max, mode)
	s.bus.Publish(event.TopicSelectionChanged, ids)
	return ids
}

// Undo restores the state before the most recent history item.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.hist.Undo()
	if err != nil {
		return err
	}
	s.st.Restore(item.Before.Entities)
	s.sel.Restore(item.Before.Selection)
	s.bus.Publish(event.TopicHistoryChanged, "undo "+item.Command)
	return nil
}

// Redo re-applies the most recently undone item.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.hist.Redo()
	if err != nil {
		return err
	}
	s.st.Restore(item.After.Entities)
	s.sel.Restore(item.After.Selection)
	s.bus.Publish(event.TopicHistoryChanged, "redo "+item.Command)
	return nil
}

// SetOSnap toggles object-snap substitution.
func (s *Session) SetOSnap(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.osnap = on
}

// OSnap reports whether object snap is enabled.
func (s *Session) OSnap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.osnap
}

// SetOrtho toggles the horizontal/vertical input constraint.
func (s *Session) SetOrtho(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ortho = on
}

// Ortho reports whether ortho mode is enabled.
func (s *Session) Ortho() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ortho
}

// SetPolar toggles polar-increment tracking.
func (s *Session) SetPolar(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polar = on
}

// Polar reports whether polar tracking is enabled.
func (s *Session) Polar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polar
}

// resolveLocked turns a raw click into the effective input point. An
// object snap, when one captures, overrides the axis constraints;
// otherwise ortho clamps to the dominant axis and polar tracking snaps
// the angle from the previous point to the nearest increment.
func (s *Session) resolveLocked(raw geom.Point) geom.Point {
	if s.osnap && command.IsDraw(s.ctx.Command) {
		if snap, ok := s.findSnapLocked(raw); ok {
			return snap.Point
		}
	}
	last, ok := s.ctx.LastTemp()
	if !ok {
		return raw
	}
	if s.ortho {
		d := raw.Sub(last)
		if math.Abs(d.X) >= math.Abs(d.Y) {
			return geom.Pt(raw.X, last.Y)
		}
		return geom.Pt(last.X, raw.Y)
	}
	if s.polar {
		return s.polarSnap(last, raw)
	}
	return raw
}

// findSnapLocked gathers snap candidates from every visible entity and
// picks the best within tolerance. Computed only while a draw command
// is active, which bounds the cost to interactive drawing.
func (s *Session) findSnapLocked(raw geom.Point) (geom.SnapPoint, bool) {
	var candidates []geom.SnapPoint
	for _, e := range s.st.All() {
		if !e.Visible || !s.st.LayerVisible(e.Layer) {
			continue
		}
		candidates = append(candidates, e.SnapCandidates()...)
	}
	return geom.BestSnap(raw, candidates, s.settings.SnapTolerance)
}

// polarSnap rotates the click onto the nearest angular increment from
// last, when it lies within the capture window.
func (s *Session) polarSnap(last, raw geom.Point) geom.Point {
	d := raw.Sub(last)
	dist := last.DistanceTo(raw)
	if dist < geom.Epsilon {
		return raw
	}
	inc := s.settings.PolarIncrementDeg * math.Pi / 180
	angle := math.Atan2(d.Y, d.X)
	snapped := math.Round(angle/inc) * inc
	if math.Abs(geom.NormalizeAngle(angle-snapped+math.Pi)-math.Pi) > polarWindowDeg*math.Pi/180 {
		return raw
	}
	return last.Polar(snapped, dist)
}

// finishLocked folds a handler result into the session state: the
// prompt updates and a terminal status deactivates the command.
func (s *Session) finishLocked(res command.Result) {
	if res.Prompt != "" {
		s.prompt = res.Prompt
	}
	if res.Active() {
		return
	}
	name := s.ctx.Command
	s.active = nil
	s.ctx = nil
	s.prompt = ""
	switch res.Status {
	case command.StatusDone:
		s.bus.Publish(event.TopicCommandFinished, string(name))
	case command.StatusAbort:
		s.bus.Publish(event.TopicCommandCanceled, string(name))
	case command.StatusError:
		s.logger.Error("%s failed: %v", name, res.Err)
		s.bus.Publish(event.TopicCommandCanceled, string(name))
	}
	s.logger.Debug("finish %s (%s)", name, res.Status)
}

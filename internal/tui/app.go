package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/session"
)

// uiRows is the prompt line plus the status line.
const uiRows = 2

// App is the interactive front end: one tcell screen over one session.
// It reaches the engine only through the public session API and the
// event bus.
type App struct {
	screen tcell.Screen
	sess   *session.Session
	logger *log.Logger

	vp    Viewport
	input string
	// transient message shown on the status line until the next event
	notice string

	// pending mouse press, for click vs box-drag
	pressCol, pressRow int
	pressed            bool

	// OnSave, when set, handles ctrl-s. The returned error lands on
	// the prompt line.
	OnSave func() error

	subs []event.Subscription
	quit bool
}

// New wires an app over an initialized screen. The caller owns screen
// setup and teardown.
func New(screen tcell.Screen, sess *session.Session, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Null
	}
	a := &App{
		screen: screen,
		sess:   sess,
		logger: logger.WithComponent("tui"),
		vp:     NewViewport(),
	}
	a.subscribe()
	a.zoomExtents()
	return a
}

// Run polls events until quit. The screen must already be initialized.
func (a *App) Run() error {
	a.redraw()
	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			break
		}
		a.handleEvent(ev)
		a.redraw()
	}
	for _, sub := range a.subs {
		a.sess.Bus().Unsubscribe(sub)
	}
	return nil
}

// Stop ends the event loop after the current event.
func (a *App) Stop() {
	a.quit = true
}

func (a *App) subscribe() {
	warn := func(ev event.Event) {
		a.notice = fmt.Sprintf("%v", ev.Data)
	}
	a.subs = append(a.subs,
		a.sess.Bus().Subscribe(event.TopicWarning, warn),
		a.sess.Bus().Subscribe(event.TopicCommandFinished, func(event.Event) {
			a.notice = ""
		}),
	)
}

func (a *App) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(e)
	case *tcell.EventMouse:
		a.handleMouse(e)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

func (a *App) handleKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyEscape:
		if a.input != "" {
			a.input = ""
			return
		}
		a.sess.CancelCommand()
	case tcell.KeyEnter:
		text := a.input
		a.input = ""
		a.submit(text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if a.input != "" {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyCtrlZ:
		if err := a.sess.Undo(); err != nil {
			a.notice = err.Error()
		}
	case tcell.KeyCtrlY:
		if err := a.sess.Redo(); err != nil {
			a.notice = err.Error()
		}
	case tcell.KeyCtrlE:
		a.zoomExtents()
	case tcell.KeyCtrlS:
		if a.OnSave == nil {
			return
		}
		if err := a.OnSave(); err != nil {
			a.notice = err.Error()
		} else {
			a.notice = "saved"
		}
	case tcell.KeyCtrlQ:
		a.quit = true
	case tcell.KeyF8:
		a.sess.SetOrtho(!a.sess.Ortho())
	case tcell.KeyF9:
		a.sess.SetOSnap(!a.sess.OSnap())
	case tcell.KeyF10:
		a.sess.SetPolar(!a.sess.Polar())
	case tcell.KeyUp:
		a.vp.Pan(0, -2)
	case tcell.KeyDown:
		a.vp.Pan(0, 2)
	case tcell.KeyLeft:
		a.vp.Pan(-4, 0)
	case tcell.KeyRight:
		a.vp.Pan(4, 0)
	case tcell.KeyPgUp:
		w, h := a.drawSize()
		a.vp.Zoom(1.25, w/2, h/2, w, h)
	case tcell.KeyPgDn:
		w, h := a.drawSize()
		a.vp.Zoom(0.8, w/2, h/2, w, h)
	case tcell.KeyRune:
		a.input += string(e.Rune())
	}
}

// submit routes typed input: commands and values both go through
// OnValue, which parses command names when the session is idle.
func (a *App) submit(text string) {
	res := a.sess.OnValue(text)
	if res.Err != nil {
		a.notice = res.Err.Error()
	}
}

func (a *App) handleMouse(e *tcell.EventMouse) {
	col, row := e.Position()
	w, h := a.drawSize()

	switch {
	case e.Buttons()&tcell.WheelUp != 0:
		a.vp.Zoom(1.1, col, row, w, h)
		return
	case e.Buttons()&tcell.WheelDown != 0:
		a.vp.Zoom(0.9, col, row, w, h)
		return
	}

	if e.Buttons()&tcell.Button1 != 0 {
		if !a.pressed {
			a.pressed = true
			a.pressCol, a.pressRow = col, row
		}
		return
	}
	if !a.pressed {
		return
	}
	a.pressed = false
	if row >= h || a.pressRow >= h {
		return
	}

	// Release on the press cell is a click; anything else is a
	// box drag whose direction picks WINDOW or CROSSING.
	if col == a.pressCol && row == a.pressRow {
		p := a.vp.ToWorld(col, row, w, h)
		res := a.sess.OnPoint(p)
		if res.Err != nil {
			a.notice = res.Err.Error()
		}
		return
	}
	start := a.vp.ToWorld(a.pressCol, a.pressRow, w, h)
	end := a.vp.ToWorld(col, row, w, h)
	a.sess.BoxSelect(start, end)
}

func (a *App) drawSize() (int, int) {
	w, h := a.screen.Size()
	if h > uiRows {
		h -= uiRows
	}
	return w, h
}

func (a *App) zoomExtents() {
	var box geom.Box
	have := false
	for _, e := range a.sess.Store().All() {
		b, ok := e.Bounds()
		if !ok {
			continue
		}
		if !have {
			box, have = b, true
		} else {
			box = box.Union(b)
		}
	}
	if !have {
		return
	}
	w, h := a.drawSize()
	a.vp.ZoomExtents(box, w, h)
}

func (a *App) redraw() {
	a.screen.Clear()
	w, h := a.drawSize()

	layers := make(map[string]entity.Layer)
	for _, l := range a.sess.Store().Layers() {
		layers[l.Name] = l
	}
	selected := make(map[uint64]bool)
	for _, id := range a.sess.Selection().IDs() {
		selected[id] = true
	}

	c := &canvas{
		screen:   a.screen,
		vp:       a.vp,
		w:        w,
		h:        h,
		layers:   layers,
		selected: selected,
		blocks:   a.sess.Store().Block,
	}
	c.draw(a.sess.Store().All())
	c.tempPoints(a.sess.TempPoints())

	a.drawText(0, h, a.promptLine(), tcell.StyleDefault.Bold(true))
	a.drawText(0, h+1, a.statusLine(), tcell.StyleDefault.Reverse(true))
	a.screen.Show()
}

// promptLine shows the active prompt and the value being typed.
func (a *App) promptLine() string {
	prompt := a.sess.PendingPrompt()
	if a.notice != "" {
		prompt = a.notice
	}
	return fmt.Sprintf("%s > %s", prompt, a.input)
}

// statusLine summarizes the session: command, step, counts and the
// input modifier flags.
func (a *App) statusLine() string {
	var b strings.Builder
	name := a.sess.ActiveCommand()
	if name == "" {
		b.WriteString("READY")
	} else {
		fmt.Fprintf(&b, "%s step %d", name, a.sess.Step())
	}
	fmt.Fprintf(&b, " | layer %s | %d entities | %d selected",
		a.sess.Store().ActiveLayer(), a.sess.Store().Len(), a.sess.Selection().Len())
	for _, f := range []struct {
		on   bool
		name string
	}{
		{a.sess.OSnap(), "OSNAP"},
		{a.sess.Ortho(), "ORTHO"},
		{a.sess.Polar(), "POLAR"},
	} {
		if f.on {
			b.WriteString(" [" + f.name + "]")
		}
	}
	return b.String()
}

func (a *App) drawText(col, row int, s string, st tcell.Style) {
	w, _ := a.screen.Size()
	for i, r := range []rune(s) {
		if col+i >= w {
			break
		}
		a.screen.SetContent(col+i, row, r, nil, st)
	}
}

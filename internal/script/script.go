// Package script runs drawing automation written in Lua against a
// live session. Scripts see a single `draft` module; the interpreter
// is sandboxed with no file, shell or module-loading access.
package script

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/geom"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/session"
)

// DefaultTimeout bounds one script run; runaway loops are cancelled
// through the interpreter context.
const DefaultTimeout = 10 * time.Second

// Options configures an Engine.
type Options struct {
	Logger  *log.Logger
	Timeout time.Duration
}

// Engine is a sandboxed Lua interpreter bound to one drawing session.
// Not safe for concurrent use; run scripts from a single goroutine.
type Engine struct {
	L       *lua.LState
	sess    *session.Session
	logger  *log.Logger
	timeout time.Duration
}

// New builds an engine around sess. The Lua state opens only the base,
// table, string and math libraries; load/dofile/loadfile are removed
// so scripts cannot escape the sandbox.
func New(sess *session.Session, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Null
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	e := &Engine{
		L:       L,
		sess:    sess,
		logger:  logger.WithComponent("script"),
		timeout: timeout,
	}
	e.installModule()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// RunFile executes a script file.
func (e *Engine) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return e.run(path, string(src))
}

// RunString executes script source under the given name, which appears
// in error positions.
func (e *Engine) RunString(name, src string) error {
	return e.run(name, src)
}

func (e *Engine) run(name, src string) error {
	fn, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	e.L.Push(fn)
	if err := e.L.PCall(0, 0, nil); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// installModule registers the draft table.
func (e *Engine) installModule() {
	mod := e.L.NewTable()
	funcs := map[string]lua.LGFunction{
		"start_command":   e.startCommand,
		"point":           e.point,
		"value":           e.value,
		"cancel":          e.cancel,
		"undo":            e.undo,
		"redo":            e.redo,
		"entities":        e.entities,
		"select_all":      e.selectAll,
		"clear_selection": e.clearSelection,
		"selection":       e.selection,
		"set_layer":       e.setLayer,
		"osnap":           e.osnap,
		"ortho":           e.ortho,
		"polar":           e.polar,
		"active_command":  e.activeCommand,
		"prompt":          e.prompt,
		"log":             e.logLine,
	}
	for name, fn := range funcs {
		e.L.SetField(mod, name, e.L.NewFunction(fn))
	}
	e.L.SetGlobal("draft", mod)
}

// startCommand(name)
// Starts an interactive command; raises on unknown names.
func (e *Engine) startCommand(L *lua.LState) int {
	raw := L.CheckString(1)
	name, ok := command.Parse(raw)
	if !ok {
		L.RaiseError("unknown command %q", raw)
		return 0
	}
	if err := e.sess.StartCommand(name); err != nil {
		L.RaiseError("start %s: %v", name, err)
		return 0
	}
	return 0
}

// point(x, y) -> status, prompt
// Feeds a click through the session's input pipeline.
func (e *Engine) point(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	res := e.sess.OnPoint(geom.Pt(x, y))
	return pushResult(L, res)
}

// value(text) -> status, prompt
// Feeds typed input; an idle session treats it as a command name.
func (e *Engine) value(L *lua.LState) int {
	res := e.sess.OnValue(L.CheckString(1))
	return pushResult(L, res)
}

func (e *Engine) cancel(L *lua.LState) int {
	e.sess.CancelCommand()
	return 0
}

// undo() -> bool
func (e *Engine) undo(L *lua.LState) int {
	err := e.sess.Undo()
	L.Push(lua.LBool(err == nil))
	return 1
}

// redo() -> bool
func (e *Engine) redo(L *lua.LState) int {
	err := e.sess.Redo()
	L.Push(lua.LBool(err == nil))
	return 1
}

// entities() -> { {id, type, layer}, ... }
func (e *Engine) entities(L *lua.LState) int {
	result := L.NewTable()
	for i, ent := range e.sess.Store().All() {
		tbl := L.NewTable()
		L.SetField(tbl, "id", lua.LNumber(ent.ID))
		L.SetField(tbl, "type", lua.LString(string(ent.Kind)))
		L.SetField(tbl, "layer", lua.LString(ent.Layer))
		result.RawSetInt(i+1, tbl)
	}
	L.Push(result)
	return 1
}

func (e *Engine) selectAll(L *lua.LState) int {
	e.sess.Selection().SelectAll()
	return 0
}

func (e *Engine) clearSelection(L *lua.LState) int {
	e.sess.Selection().Clear()
	return 0
}

// selection() -> {id, ...}
func (e *Engine) selection(L *lua.LState) int {
	result := L.NewTable()
	for i, id := range e.sess.Selection().IDs() {
		result.RawSetInt(i+1, lua.LNumber(id))
	}
	L.Push(result)
	return 1
}

// set_layer(name)
func (e *Engine) setLayer(L *lua.LState) int {
	name := L.CheckString(1)
	if err := e.sess.Store().SetActiveLayer(name); err != nil {
		L.RaiseError("set_layer: %v", err)
		return 0
	}
	return 0
}

// osnap(on?) -> bool
// With an argument sets the mode; always returns the current state.
func (e *Engine) osnap(L *lua.LState) int {
	if L.GetTop() >= 1 {
		e.sess.SetOSnap(L.CheckBool(1))
	}
	L.Push(lua.LBool(e.sess.OSnap()))
	return 1
}

func (e *Engine) ortho(L *lua.LState) int {
	if L.GetTop() >= 1 {
		e.sess.SetOrtho(L.CheckBool(1))
	}
	L.Push(lua.LBool(e.sess.Ortho()))
	return 1
}

func (e *Engine) polar(L *lua.LState) int {
	if L.GetTop() >= 1 {
		e.sess.SetPolar(L.CheckBool(1))
	}
	L.Push(lua.LBool(e.sess.Polar()))
	return 1
}

// active_command() -> string
func (e *Engine) activeCommand(L *lua.LState) int {
	L.Push(lua.LString(string(e.sess.ActiveCommand())))
	return 1
}

// prompt() -> string
func (e *Engine) prompt(L *lua.LState) int {
	L.Push(lua.LString(e.sess.PendingPrompt()))
	return 1
}

// log(msg)
func (e *Engine) logLine(L *lua.LState) int {
	e.logger.Info("%s", L.CheckString(1))
	return 0
}

// pushResult maps a command result onto (status, prompt). Command
// errors surface through the prompt slot so scripts can branch on
// status.
func pushResult(L *lua.LState, res command.Result) int {
	L.Push(lua.LString(statusWord(res.Status)))
	msg := res.Prompt
	if res.Err != nil {
		msg = res.Err.Error()
	}
	L.Push(lua.LString(msg))
	return 2
}

func statusWord(s command.Status) string {
	switch s {
	case command.StatusContinue:
		return "continue"
	case command.StatusDone:
		return "done"
	case command.StatusNoOp:
		return "noop"
	case command.StatusAbort:
		return "abort"
	case command.StatusError:
		return "error"
	default:
		return "unknown"
	}
}

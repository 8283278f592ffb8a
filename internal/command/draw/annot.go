package draw

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// DefaultTextHeight is used when no height is typed.
const DefaultTextHeight = 2.5

// defaultCellSize is the TABLE row height / column width.
const defaultCellSize = 10.0

// pointHandler: every click drops a POINT entity.
type pointHandler struct{}

func (h *pointHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify point")
}

func (h *pointHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	id, err := ctx.AddEntity(entity.NewPoint(p))
	if err != nil {
		return command.Fail(err)
	}
	return command.Continue("Specify point").WithCreated(id)
}

func (h *pointHandler) OnValue(ctx *command.Context, text string) command.Result {
	return command.NoOp("Specify point")
}

func (h *pointHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// rayHandler: origin plus a through point, repeated from the same
// origin for fans of rays.
type rayHandler struct {
	origin geom.Point
}

func (h *rayHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify ray origin")
}

func (h *rayHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step == 1 {
		h.origin = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify through point")
	}
	if p.NearlyEqual(h.origin) {
		return command.NoOp("Specify through point")
	}
	id, err := ctx.AddEntity(entity.NewRay(h.origin, p))
	if err != nil {
		return command.Fail(err)
	}
	return command.Continue("Specify through point").WithCreated(id)
}

func (h *rayHandler) OnValue(ctx *command.Context, text string) command.Result {
	return command.NoOp("Specify point")
}

func (h *rayHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// xlineHandler: like rayHandler, but infinite in both directions.
type xlineHandler struct {
	origin geom.Point
}

func (h *xlineHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify construction line origin")
}

func (h *xlineHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step == 1 {
		h.origin = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify through point")
	}
	if p.NearlyEqual(h.origin) {
		return command.NoOp("Specify through point")
	}
	id, err := ctx.AddEntity(entity.NewXLine(h.origin, p))
	if err != nil {
		return command.Fail(err)
	}
	return command.Continue("Specify through point").WithCreated(id)
}

func (h *xlineHandler) OnValue(ctx *command.Context, text string) command.Result {
	return command.NoOp("Specify point")
}

func (h *xlineHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// textHandler: insertion click, optional typed height, then the text
// content. An empty content aborts the entry.
type textHandler struct {
	position geom.Point
	height   float64
}

func (h *textHandler) Start(ctx *command.Context) command.Result {
	h.height = DefaultTextHeight
	return command.Continue("Specify text insertion point")
}

func (h *textHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step != 1 {
		return command.NoOp("Enter text")
	}
	h.position = p
	ctx.PushTemp(p)
	ctx.Advance()
	return command.Continue("Enter text height or text")
}

func (h *textHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 2 {
		return command.NoOp("Specify text insertion point")
	}
	if text == "" {
		ctx.Reset(1)
		return command.Continue("Specify text insertion point")
	}
	// A bare number is the height; anything else is the content.
	if v, err := parseFloat(text); err == nil && v > 0 {
		h.height = v
		return command.Continue("Enter text")
	}
	id, err := ctx.AddEntity(entity.NewText(h.position, text, h.height))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify text insertion point").WithCreated(id)
}

func (h *textHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// mtextHandler: two corner clicks fix insertion and wrap width, then
// the content.
type mtextHandler struct {
	position geom.Point
	width    float64
}

func (h *mtextHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first corner")
}

func (h *mtextHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.position = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify opposite corner")
	case 2:
		h.width = p.Sub(h.position).Length()
		if h.width <= geom.Epsilon {
			return command.NoOp("Specify opposite corner")
		}
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Enter text")
	}
	return command.NoOp("Enter text")
}

func (h *mtextHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 3 {
		return command.NoOp("Specify corner")
	}
	if text == "" {
		ctx.Reset(1)
		return command.Continue("Specify first corner")
	}
	id, err := ctx.AddEntity(entity.NewMText(h.position, text, DefaultTextHeight, h.width))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify first corner").WithCreated(id)
}

func (h *mtextHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// tableHandler: insertion click, then "rows cols".
type tableHandler struct {
	position geom.Point
}

func (h *tableHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify table insertion point")
}

func (h *tableHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step != 1 {
		return command.NoOp("Enter rows and columns")
	}
	h.position = p
	ctx.PushTemp(p)
	ctx.Advance()
	return command.Continue("Enter rows and columns (e.g. 3 4)")
}

func (h *tableHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 2 || text == "" {
		return command.NoOp("")
	}
	rows, cols, err := parsePair(text)
	if err != nil || rows < 1 || cols < 1 {
		ctx.Warn("table size %q must be two positive integers", text)
		return command.NoOp("Enter rows and columns (e.g. 3 4)")
	}
	id, err := ctx.AddEntity(entity.NewTable(h.position, rows, cols, defaultCellSize, defaultCellSize*2))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify table insertion point").WithCreated(id)
}

func (h *tableHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// hatchHandler: boundary vertices by click, optional typed pattern
// name, empty value fills the boundary.
type hatchHandler struct {
	pattern string
}

func (h *hatchHandler) Start(ctx *command.Context) command.Result {
	h.pattern = "ANSI31"
	return command.Continue("Specify boundary vertex")
}

func (h *hatchHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	ctx.PushTemp(p)
	ctx.Advance()
	return command.Continuef("Specify boundary vertex (%d collected)", len(ctx.Temp))
}

func (h *hatchHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text != "" {
		h.pattern = text
		return command.Continue("Specify boundary vertex")
	}
	if len(ctx.Temp) < 3 {
		ctx.Warn("hatch boundary needs at least 3 vertices, got %d", len(ctx.Temp))
		return command.Abort()
	}
	id, err := ctx.AddEntity(entity.NewHatch(ctx.Temp, h.pattern))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify boundary vertex").WithCreated(id)
}

func (h *hatchHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

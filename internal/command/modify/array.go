package modify

import (
	"math"
	"strings"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/geom"
)

type arrayMode uint8

const (
	arrayUnset arrayMode = iota
	arrayRect
	arrayPolar
)

// arrayHandler replicates the selection on a rectangular grid or
// around a center. Every copy draws a fresh id from the store counter.
type arrayHandler struct {
	pick entityPicker
	mode arrayMode

	rows, cols int
	center     geom.Point
	count      int
}

func (h *arrayHandler) Start(ctx *command.Context) command.Result {
	h.pick.begin(ctx)
	if h.pick.picking {
		return command.Continue("Select entities to array")
	}
	return command.Continue("Enter array type [R]ectangular/[P]olar")
}

func (h *arrayHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	if h.mode == arrayPolar && ctx.Step == 2 {
		h.center = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Enter item count")
	}
	return command.NoOp("")
}

func (h *arrayHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return command.Continue("Enter array type [R]ectangular/[P]olar")
	}

	switch {
	case h.mode == arrayUnset:
		switch strings.ToUpper(strings.TrimSpace(text)) {
		case "R", "RECT", "RECTANGULAR":
			h.mode = arrayRect
			ctx.Advance()
			return command.Continue("Enter rows and columns (e.g. 3 4)")
		case "P", "POLAR":
			h.mode = arrayPolar
			ctx.Advance()
			return command.Continue("Specify center point")
		}
		return command.NoOp("Enter array type [R]ectangular/[P]olar")

	case h.mode == arrayRect && ctx.Step == 2:
		vals, err := parseFloats(text)
		if err != nil || len(vals) != 2 || vals[0] < 1 || vals[1] < 1 {
			return command.NoOp("Enter rows and columns (e.g. 3 4)")
		}
		h.rows, h.cols = int(vals[0]), int(vals[1])
		if h.rows*h.cols < 2 {
			ctx.Warn("array needs at least 2 cells")
			return command.NoOp("Enter rows and columns (e.g. 3 4)")
		}
		ctx.Advance()
		return command.Continue("Enter row and column spacing (e.g. 20 30)")

	case h.mode == arrayRect && ctx.Step == 3:
		vals, err := parseFloats(text)
		if err != nil || len(vals) == 0 {
			return command.NoOp("Enter row and column spacing")
		}
		sy := vals[0]
		sx := vals[0]
		if len(vals) > 1 {
			sx = vals[1]
		}
		return h.commitRect(ctx, sy, sx)

	case h.mode == arrayPolar && ctx.Step == 3:
		n, err := parseInt(text)
		if err != nil || n < 2 {
			return command.NoOp("Enter item count (at least 2)")
		}
		h.count = n
		ctx.Advance()
		return command.Continue("Enter fill angle in degrees (Enter for 360)")

	case h.mode == arrayPolar && ctx.Step == 4:
		fill := 360.0
		if text != "" {
			v, err := parseFloat(text)
			if err != nil || v == 0 {
				return command.NoOp("Enter fill angle in degrees")
			}
			fill = v
		}
		return h.commitPolar(ctx, fill)
	}
	return command.NoOp("")
}

// commitRect translate-replicates the selection over the grid,
// skipping the original cell.
func (h *arrayHandler) commitRect(ctx *command.Context, spacingY, spacingX float64) command.Result {
	ids := ctx.Selection().IDs()
	var created []uint64
	err := ctx.Commit(func() error {
		for row := 0; row < h.rows; row++ {
			for col := 0; col < h.cols; col++ {
				if row == 0 && col == 0 {
					continue
				}
				tr := geom.Translation(float64(col)*spacingX, float64(row)*spacingY)
				for _, id := range ids {
					e, ok := ctx.Store().Get(id)
					if !ok {
						continue
					}
					c := e.Transformed(tr)
					c.ID = 0
					newID, err := ctx.Store().Add(c)
					if err != nil {
						return err
					}
					created = append(created, newID)
				}
			}
		}
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	return command.Done().WithCreated(created...)
}

// commitPolar rotate-replicates the selection around the center. A
// full circle spaces items evenly over 360°; a partial fill spreads
// them inclusively from the original to the fill angle.
func (h *arrayHandler) commitPolar(ctx *command.Context, fillDeg float64) command.Result {
	ids := ctx.Selection().IDs()
	step := fillDeg / float64(h.count)
	if math.Abs(math.Abs(fillDeg)-360) > geom.Epsilon && h.count > 1 {
		step = fillDeg / float64(h.count-1)
	}
	var created []uint64
	err := ctx.Commit(func() error {
		for i := 1; i < h.count; i++ {
			tr := geom.Rotation(h.center, float64(i)*step*math.Pi/180)
			for _, id := range ids {
				e, ok := ctx.Store().Get(id)
				if !ok {
					continue
				}
				c := e.Transformed(tr)
				c.ID = 0
				newID, err := ctx.Store().Add(c)
				if err != nil {
					return err
				}
				created = append(created, newID)
			}
		}
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	return command.Done().WithCreated(created...)
}

func (h *arrayHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

package modify

import (
	"math"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// applyToSelection transforms every selected entity in place as one
// history item.
func applyToSelection(ctx *command.Context, tr geom.Transform) command.Result {
	ids := ctx.Selection().IDs()
	if len(ids) == 0 {
		return command.Abort()
	}
	err := ctx.Commit(func() error {
		for _, id := range ids {
			if err := ctx.Store().Update(id, func(e *entity.Entity) {
				*e = e.Transformed(tr)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityUpdated, ids)
	return command.Done()
}

// copySelection inserts transformed clones of the selection with fresh
// ids as one history item.
func copySelection(ctx *command.Context, tr geom.Transform) ([]uint64, error) {
	ids := ctx.Selection().IDs()
	created := make([]uint64, 0, len(ids))
	err := ctx.Commit(func() error {
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
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range created {
		ctx.Publish(event.TopicEntityAdded, id)
	}
	return created, nil
}

// moveHandler: optional pick phase, base point, destination point.
type moveHandler struct {
	pick entityPicker
	base geom.Point
}

func (h *moveHandler) Start(ctx *command.Context) command.Result {
	h.pick.begin(ctx)
	if h.pick.picking {
		return command.Continue("Select entities to move")
	}
	return command.Continue("Specify base point")
}

func (h *moveHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	switch ctx.Step {
	case 1:
		h.base = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify destination point")
	case 2:
		d := p.Sub(h.base)
		return applyToSelection(ctx, geom.Translation(d.X, d.Y))
	}
	return command.NoOp("")
}

func (h *moveHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return command.Continue("Specify base point")
	}
	return command.NoOp("")
}

func (h *moveHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// copyHandler: like move, but each destination click places another
// copy and the command keeps running.
type copyHandler struct {
	pick entityPicker
	base geom.Point
}

func (h *copyHandler) Start(ctx *command.Context) command.Result {
	h.pick.begin(ctx)
	if h.pick.picking {
		return command.Continue("Select entities to copy")
	}
	return command.Continue("Specify base point")
}

func (h *copyHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	switch ctx.Step {
	case 1:
		h.base = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify destination point")
	case 2:
		d := p.Sub(h.base)
		created, err := copySelection(ctx, geom.Translation(d.X, d.Y))
		if err != nil {
			return command.Fail(err)
		}
		return command.Continue("Specify next destination point").WithCreated(created...)
	}
	return command.NoOp("")
}

func (h *copyHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return command.Continue("Specify base point")
	}
	if text == "" && ctx.Step == 2 {
		return command.Done()
	}
	return command.NoOp("")
}

func (h *copyHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// rotateHandler: base point, then an angle from a click (atan2 from
// the base) or a typed value in degrees.
type rotateHandler struct {
	pick entityPicker
	base geom.Point
}

func (h *rotateHandler) Start(ctx *command.Context) command.Result {
	h.pick.begin(ctx)
	if h.pick.picking {
		return command.Continue("Select entities to rotate")
	}
	return command.Continue("Specify base point")
}

func (h *rotateHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	switch ctx.Step {
	case 1:
		h.base = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify rotation angle")
	case 2:
		d := p.Sub(h.base)
		if d.Length() < geom.Epsilon {
			return command.NoOp("Specify rotation angle")
		}
		return applyToSelection(ctx, geom.Rotation(h.base, d.Angle()))
	}
	return command.NoOp("")
}

func (h *rotateHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return command.Continue("Specify base point")
	}
	if ctx.Step == 2 && text != "" {
		deg, err := parseFloat(text)
		if err != nil {
			return command.NoOp("Specify rotation angle")
		}
		return applyToSelection(ctx, geom.Rotation(h.base, deg*math.Pi/180))
	}
	return command.NoOp("")
}

func (h *rotateHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// scaleHandler: base point, reference distance point, new distance
// point; the factor is the distance ratio. A typed value after the
// base point is the factor directly.
type scaleHandler struct {
	pick      entityPicker
	base      geom.Point
	reference float64
}

func (h *scaleHandler) Start(ctx *command.Context) command.Result {
	h.pick.begin(ctx)
	if h.pick.picking {
		return command.Continue("Select entities to scale")
	}
	return command.Continue("Specify base point")
}

func (h *scaleHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	switch ctx.Step {
	case 1:
		h.base = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify reference point or enter factor")
	case 2:
		h.reference = h.base.DistanceTo(p)
		if h.reference < geom.Epsilon {
			return command.NoOp("Specify reference point")
		}
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify new distance point")
	case 3:
		dist := h.base.DistanceTo(p)
		if dist < geom.Epsilon {
			return command.NoOp("Specify new distance point")
		}
		return applyToSelection(ctx, geom.Scaling(h.base, dist/h.reference))
	}
	return command.NoOp("")
}

func (h *scaleHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return command.Continue("Specify base point")
	}
	if ctx.Step == 2 && text != "" {
		factor, err := parseFloat(text)
		if err != nil || factor <= geom.Epsilon {
			return command.NoOp("Specify reference point or enter factor")
		}
		return applyToSelection(ctx, geom.Scaling(h.base, factor))
	}
	return command.NoOp("")
}

func (h *scaleHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// mirrorHandler: two points define the mirror line.
type mirrorHandler struct {
	pick  entityPicker
	first geom.Point
}

func (h *mirrorHandler) Start(ctx *command.Context) command.Result {
	h.pick.begin(ctx)
	if h.pick.picking {
		return command.Continue("Select entities to mirror")
	}
	return command.Continue("Specify first point of mirror line")
}

func (h *mirrorHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	switch ctx.Step {
	case 1:
		h.first = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify second point of mirror line")
	case 2:
		if p.NearlyEqual(h.first) {
			return command.NoOp("Specify second point of mirror line")
		}
		return applyToSelection(ctx, geom.Mirror(h.first, p))
	}
	return command.NoOp("")
}

func (h *mirrorHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return command.Continue("Specify first point of mirror line")
	}
	return command.NoOp("")
}

func (h *mirrorHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

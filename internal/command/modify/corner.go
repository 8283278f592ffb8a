package modify

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// cornerHandler implements FILLET (tangent arc at a radius) and
// CHAMFER (straight cut at two distances). Only LINE pairs are
// supported; other variants are rejected with a warning. Parallel
// lines abort without mutation.
type cornerHandler struct {
	fillet bool

	radius float64
	dist1  float64
	dist2  float64

	firstID   uint64
	firstPick geom.Point
}

func (h *cornerHandler) Start(ctx *command.Context) command.Result {
	if h.fillet {
		return command.Continue("Select first line or enter fillet radius")
	}
	return command.Continue("Select first line or enter chamfer distance")
}

func (h *cornerHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" {
		return command.NoOp("")
	}
	vals, err := parseFloats(text)
	if err != nil || len(vals) == 0 || vals[0] < 0 {
		return command.NoOp("Enter a non-negative distance")
	}
	if h.fillet {
		h.radius = vals[0]
		return command.Continuef("Radius %v, select first line", h.radius)
	}
	h.dist1 = vals[0]
	h.dist2 = vals[0]
	if len(vals) > 1 {
		h.dist2 = vals[1]
	}
	return command.Continuef("Distances %v %v, select first line", h.dist1, h.dist2)
}

func (h *cornerHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	id, ok := ctx.Selection().HitTest(p)
	if !ok {
		return command.NoOp("Select a line")
	}
	e, _ := ctx.Store().Get(id)
	if e.Kind != entity.KindLine {
		ctx.Warn("%s only works on lines, got %s", ctx.Command, e.Kind)
		return command.NoOp("Select a line")
	}

	if ctx.Step == 1 {
		h.firstID = id
		h.firstPick = p
		ctx.Advance()
		return command.Continue("Select second line")
	}
	if id == h.firstID {
		return command.NoOp("Select second line")
	}
	return h.solve(ctx, id, p)
}

func (h *cornerHandler) solve(ctx *command.Context, secondID uint64, secondPick geom.Point) command.Result {
	l1, ok1 := ctx.Store().Get(h.firstID)
	l2, ok2 := ctx.Store().Get(secondID)
	if !ok1 || !ok2 {
		return command.Abort()
	}

	var sol geom.CornerSolution
	var ok bool
	if h.fillet {
		sol, ok = geom.SolveFillet(l1.Start, l1.End, h.firstPick, l2.Start, l2.End, secondPick, h.radius)
	} else {
		sol, ok = geom.SolveChamfer(l1.Start, l1.End, h.firstPick, l2.Start, l2.End, secondPick, h.dist1, h.dist2)
	}
	if !ok {
		ctx.Warn("%s failed: lines are parallel or too short", ctx.Command)
		return command.Abort()
	}

	var created []uint64
	err := ctx.Commit(func() error {
		if err := ctx.Store().Update(h.firstID, func(e *entity.Entity) {
			e.Start, e.End = sol.Line1[0], sol.Line1[1]
		}); err != nil {
			return err
		}
		if err := ctx.Store().Update(secondID, func(e *entity.Entity) {
			e.Start, e.End = sol.Line2[0], sol.Line2[1]
		}); err != nil {
			return err
		}
		switch {
		case h.fillet && sol.Radius > 0:
			id, err := ctx.Store().Add(entity.NewArc(sol.Center, sol.Radius, sol.StartAngle, sol.EndAngle))
			if err != nil {
				return err
			}
			created = append(created, id)
		case !h.fillet && !sol.Cut1.NearlyEqual(sol.Cut2):
			id, err := ctx.Store().Add(entity.NewLine(sol.Cut1, sol.Cut2))
			if err != nil {
				return err
			}
			created = append(created, id)
		}
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityUpdated, []uint64{h.firstID, secondID})
	ctx.Reset(1)
	return command.Continue("Select first line").WithCreated(created...)
}

func (h *cornerHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

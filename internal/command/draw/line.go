package draw

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// lineHandler draws a chain of LINE segments. Each click past the
// first commits one segment; a click back within the close threshold
// of the chain's first point consolidates the chain into a closed
// LWPOLYLINE. Cancelling a chain of two or more points salvages it as
// an open LWPOLYLINE.
type lineHandler struct {
	chain  []geom.Point
	segIDs []uint64
}

func (h *lineHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first point")
}

func (h *lineHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step == 1 {
		h.chain = []geom.Point{p}
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify next point")
	}

	prev := h.chain[len(h.chain)-1]
	if len(h.chain) >= 3 && p.DistanceTo(h.chain[0]) <= ctx.Settings().CloseThreshold {
		return h.closeLoop(ctx)
	}
	if p.NearlyEqual(prev) {
		return command.NoOp("Specify next point")
	}

	seg := entity.NewLine(prev, p)
	id, err := ctx.AddEntity(seg)
	if err != nil {
		return command.Fail(err)
	}
	h.chain = append(h.chain, p)
	h.segIDs = append(h.segIDs, id)
	// Only the running point stays as temp state.
	ctx.Temp = []geom.Point{p}
	return command.Continue("Specify next point").WithCreated(id)
}

// closeLoop replaces the chain's interim segments with one closed
// polyline and starts a fresh chain.
func (h *lineHandler) closeLoop(ctx *command.Context) command.Result {
	var id uint64
	err := ctx.Commit(func() error {
		ctx.Store().Delete(h.segIDs)
		var err error
		id, err = ctx.Store().Add(entity.NewPolyline(h.chain, true))
		return err
	})
	if err != nil {
		return command.Fail(err)
	}
	h.chain = nil
	h.segIDs = nil
	ctx.Reset(1)
	return command.Continue("Specify first point").WithCreated(id)
}

func (h *lineHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" {
		// Finish the chain, keeping the segments already drawn.
		h.chain = nil
		h.segIDs = nil
		ctx.Reset(1)
		return command.Continue("Specify first point")
	}
	if text == "C" || text == "c" {
		if len(h.chain) >= 3 {
			return h.closeLoop(ctx)
		}
		return command.NoOp("Specify next point")
	}
	return command.NoOp("Specify next point")
}

func (h *lineHandler) Cancel(ctx *command.Context) command.Result {
	if len(h.chain) >= 2 {
		return salvagePolyline(ctx, h.chain, h.segIDs)
	}
	return command.Done()
}

// salvagePolyline consolidates collected points (and any interim
// segments) into one open LWPOLYLINE.
func salvagePolyline(ctx *command.Context, pts []geom.Point, segIDs []uint64) command.Result {
	var id uint64
	err := ctx.Commit(func() error {
		if len(segIDs) > 0 {
			ctx.Store().Delete(segIDs)
		}
		var err error
		id, err = ctx.Store().Add(entity.NewPolyline(pts, false))
		return err
	})
	if err != nil {
		return command.Fail(err)
	}
	return command.Done().WithCreated(id)
}

// polylineHandler accumulates vertices and commits a single
// LWPOLYLINE on finish ("" keeps it open, "C" closes it).
type polylineHandler struct{}

func (h *polylineHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first vertex")
}

func (h *polylineHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if last, ok := ctx.LastTemp(); ok && p.NearlyEqual(last) {
		return command.NoOp("Specify next vertex")
	}
	ctx.PushTemp(p)
	ctx.Advance()
	return command.Continuef("Specify next vertex (%d collected)", len(ctx.Temp))
}

func (h *polylineHandler) OnValue(ctx *command.Context, text string) command.Result {
	closed := text == "C" || text == "c"
	if text != "" && !closed {
		return command.NoOp("Specify next vertex")
	}
	if closed && len(ctx.Temp) < 3 {
		ctx.Warn("closed polyline needs at least 3 vertices, got %d", len(ctx.Temp))
		return command.NoOp("Specify next vertex")
	}
	if len(ctx.Temp) < 2 {
		return command.Abort()
	}
	id, err := ctx.AddEntity(entity.NewPolyline(ctx.Temp, closed))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify first vertex").WithCreated(id)
}

func (h *polylineHandler) Cancel(ctx *command.Context) command.Result {
	if len(ctx.Temp) >= 2 {
		return salvagePolyline(ctx, ctx.Temp, nil)
	}
	return command.Done()
}

// splineHandler accumulates control points and commits a SPLINE of
// degree min(3, n-1) on finish. Cancelling salvages the same way.
type splineHandler struct{}

func (h *splineHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first control point")
}

func (h *splineHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	ctx.PushTemp(p)
	ctx.Advance()
	return command.Continuef("Specify next control point (%d collected)", len(ctx.Temp))
}

func (h *splineHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text != "" {
		return command.NoOp("Specify next control point")
	}
	if len(ctx.Temp) < 2 {
		return command.Abort()
	}
	id, err := ctx.AddEntity(entity.NewSpline(ctx.Temp, splineDegree(len(ctx.Temp))))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify first control point").WithCreated(id)
}

func (h *splineHandler) Cancel(ctx *command.Context) command.Result {
	if len(ctx.Temp) < 2 {
		return command.Done()
	}
	id, err := ctx.AddEntity(entity.NewSpline(ctx.Temp, splineDegree(len(ctx.Temp))))
	if err != nil {
		return command.Fail(err)
	}
	return command.Done().WithCreated(id)
}

func splineDegree(n int) int {
	if n-1 < 3 {
		return n - 1
	}
	return 3
}

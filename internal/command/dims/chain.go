package dims

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// baselineSpacing separates stacked baseline dimension lines.
const baselineSpacing = 8.0

// chainHandler implements DIMCONTINUE and DIMBASELINE. Both seed from
// the most recent linear or aligned dimension in the drawing; without
// one, the first segment is measured from two fresh points and a
// location click. CONTINUE advances the running base point to each new
// measurement, BASELINE keeps the original base and stacks the
// dimension lines outward.
type chainHandler struct {
	baseline bool

	kind   entity.DimKind
	base   geom.Point
	loc    geom.Point
	placed int
	fresh  geom.Point

	// orientation locked from the seed: chained placements keep its
	// axis and dimension-line offset instead of the stale click point.
	horizontal bool
	offset     float64
}

func (h *chainHandler) Start(ctx *command.Context) command.Result {
	seed, ok := latestLinear(ctx)
	if !ok {
		h.kind = entity.DimLinear
		return command.Continue("No dimension to continue, specify first extension line origin")
	}
	h.kind = seed.Kind
	h.loc = seed.Location
	h.lockOffset(seed.P1, seed.P2, seed.Location)
	if h.baseline {
		h.base = seed.P1
		h.placed = 1 // the seed occupies the first row
	} else {
		h.base = seed.P2
	}
	ctx.Reset(4)
	return command.Continue("Specify next extension line origin")
}

// lockOffset records the dimension-line placement relative to the
// measured segment so chained dimensions can reproduce it.
func (h *chainHandler) lockOffset(p1, p2, loc geom.Point) {
	mid := p1.Mid(p2)
	if h.kind == entity.DimAligned {
		if dir, ok := p2.Sub(p1).Unit(); ok {
			h.offset = loc.Sub(mid).Dot(dir.Normal())
		}
		return
	}
	h.horizontal = abs(loc.Y-mid.Y) >= abs(loc.X-mid.X)
	if h.horizontal {
		h.offset = loc.Y - mid.Y
	} else {
		h.offset = loc.X - mid.X
	}
}

// chainedLocation carries the locked offset to the new segment's
// midpoint so the chain never drifts away from its dimension line.
func (h *chainHandler) chainedLocation(p1, p2 geom.Point) geom.Point {
	mid := p1.Mid(p2)
	if h.kind == entity.DimAligned {
		dir, ok := p2.Sub(p1).Unit()
		if !ok {
			return h.loc
		}
		return mid.Add(dir.Normal().Mul(h.offset))
	}
	if h.horizontal {
		return geom.Pt(mid.X, mid.Y+h.offset)
	}
	return geom.Pt(mid.X+h.offset, mid.Y)
}

// latestLinear finds the most recently added linear or aligned
// dimension entity.
func latestLinear(ctx *command.Context) (entity.Dimension, bool) {
	all := ctx.Store().All()
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if e.Kind != entity.KindDim || e.Dim == nil {
			continue
		}
		if e.Dim.Kind == entity.DimLinear || e.Dim.Kind == entity.DimAligned {
			return *e.Dim, true
		}
	}
	return entity.Dimension{}, false
}

func (h *chainHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1: // fresh start: first measured point
		h.fresh = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify second extension line origin")
	case 2:
		h.base = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify dimension line location")
	case 3:
		id, ok, err := placeLinear(ctx, h.kind, h.fresh, h.base, p)
		if err != nil {
			return command.Fail(err)
		}
		if !ok {
			ctx.Reset(1)
			return command.Continue("Specify first extension line origin")
		}
		h.loc = p
		h.lockOffset(h.fresh, h.base, p)
		h.placed++
		if h.baseline {
			h.base = h.fresh
		}
		ctx.Reset(4)
		return command.Continue("Specify next extension line origin").WithCreated(id)
	case 4: // chained placement from the running base
		loc := h.chainedLocation(h.base, p)
		if h.baseline {
			loc = h.stackedLocation(p)
		}
		id, ok, err := placeLinear(ctx, h.kind, h.base, p, loc)
		if err != nil {
			return command.Fail(err)
		}
		if !ok {
			return command.Continue("Specify next extension line origin")
		}
		h.placed++
		if !h.baseline {
			h.base = p
		}
		ctx.Reset(4)
		return command.Continue("Specify next extension line origin").WithCreated(id)
	}
	return command.NoOp("")
}

// stackedLocation pushes each successive baseline row further from the
// measured points so the dimension lines do not overlap.
func (h *chainHandler) stackedLocation(next geom.Point) geom.Point {
	if h.kind == entity.DimAligned {
		dir, ok := next.Sub(h.base).Unit()
		if !ok {
			return h.loc
		}
		n := dir.Normal()
		side := 1.0
		if h.loc.Sub(h.base).Dot(n) < 0 {
			side = -1
		}
		return h.loc.Add(n.Mul(side * baselineSpacing * float64(h.placed)))
	}
	// Linear rows stack along the axis the seed was placed on.
	mid := h.base.Mid(next)
	loc := h.loc
	if abs(loc.Y-mid.Y) >= abs(loc.X-mid.X) {
		if loc.Y >= mid.Y {
			loc.Y += baselineSpacing * float64(h.placed)
		} else {
			loc.Y -= baselineSpacing * float64(h.placed)
		}
	} else {
		if loc.X >= mid.X {
			loc.X += baselineSpacing * float64(h.placed)
		} else {
			loc.X -= baselineSpacing * float64(h.placed)
		}
	}
	return loc
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (h *chainHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" {
		return command.Done()
	}
	return command.NoOp("")
}

func (h *chainHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

package dims

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// linearHandler measures the distance between two picked points and
// places the dimension line at a third click. The plain variant
// projects onto the horizontal or vertical axis, the aligned variant
// runs parallel to the measured segment. Loops for repeated placement.
type linearHandler struct {
	aligned bool
	p1, p2  geom.Point
}

func (h *linearHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first extension line origin")
}

func (h *linearHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.p1 = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify second extension line origin")
	case 2:
		h.p2 = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify dimension line location")
	case 3:
		kind := entity.DimLinear
		if h.aligned {
			kind = entity.DimAligned
		}
		id, ok, err := placeLinear(ctx, kind, h.p1, h.p2, p)
		if err != nil {
			return command.Fail(err)
		}
		ctx.Reset(1)
		if !ok {
			return command.Continue("Specify first extension line origin")
		}
		return command.Continue("Specify first extension line origin").WithCreated(id)
	}
	return command.NoOp("")
}

// placeLinear derives and commits one linear or aligned dimension.
// Degenerate geometry reports ok=false without mutating anything.
func placeLinear(ctx *command.Context, kind entity.DimKind, p1, p2, loc geom.Point) (uint64, bool, error) {
	var g geom.DimensionGeometry
	var ok bool
	if kind == entity.DimAligned {
		g, ok = geom.AlignedDimension(p1, p2, loc)
	} else {
		g, ok = geom.LinearDimension(p1, p2, loc)
	}
	if !ok {
		ctx.Warn("dimension points are degenerate")
		return 0, false, nil
	}
	id, err := ctx.AddEntity(entity.NewDimension(entity.Dimension{
		Kind:        kind,
		P1:          p1,
		P2:          p2,
		Location:    loc,
		Line1:       g.Line1,
		Line2:       g.Line2,
		TextAnchor:  g.TextAnchor,
		Rotation:    g.Rotation,
		Measurement: g.Length,
	}))
	if err != nil {
		return 0, false, err
	}
	ctx.Publish(event.TopicEntityAdded, id)
	return id, true, nil
}

func (h *linearHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" && ctx.Step == 1 {
		return command.Done()
	}
	return command.NoOp("")
}

func (h *linearHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// angularHandler measures the included angle at a vertex between two
// direction points, drawn as an arc at the clicked radius.
type angularHandler struct {
	vertex geom.Point
	p1, p2 geom.Point
}

func (h *angularHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify angle vertex")
}

func (h *angularHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.vertex = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify first angle endpoint")
	case 2:
		h.p1 = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify second angle endpoint")
	case 3:
		h.p2 = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify dimension arc location")
	case 4:
		g, ok := geom.AngularDimension(h.vertex, h.p1, h.p2, p)
		if !ok {
			ctx.Warn("angle points are degenerate")
			ctx.Reset(1)
			return command.Continue("Specify angle vertex")
		}
		id, err := ctx.AddEntity(entity.NewDimension(entity.Dimension{
			Kind:        entity.DimAngular,
			P1:          h.p1,
			P2:          h.p2,
			P3:          h.vertex,
			Location:    p,
			Line1:       g.Line1,
			Line2:       g.Line2,
			TextAnchor:  g.TextAnchor,
			Rotation:    g.Rotation,
			Measurement: g.Length,
		}))
		if err != nil {
			return command.Fail(err)
		}
		ctx.Publish(event.TopicEntityAdded, id)
		ctx.Reset(1)
		return command.Continue("Specify angle vertex").WithCreated(id)
	}
	return command.NoOp("")
}

func (h *angularHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" && ctx.Step == 1 {
		return command.Done()
	}
	return command.NoOp("")
}

func (h *angularHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// radialHandler picks a circle or arc, then places a radius or
// diameter callout at the second click.
type radialHandler struct {
	diameter bool
	targetID uint64
}

func (h *radialHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Select circle or arc")
}

func (h *radialHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		id, ok := ctx.Selection().HitTest(p)
		if !ok {
			return command.NoOp("Select circle or arc")
		}
		e, _ := ctx.Store().Get(id)
		if e.Kind != entity.KindCircle && e.Kind != entity.KindArc {
			ctx.Warn("%s needs a circle or arc, got %s", ctx.Command, e.Kind)
			return command.NoOp("Select circle or arc")
		}
		h.targetID = id
		ctx.Advance()
		return command.Continue("Specify dimension line location")
	case 2:
		e, ok := ctx.Store().Get(h.targetID)
		if !ok {
			return command.Abort()
		}
		g, gok := geom.RadialDimension(e.Center, e.Radius, p, h.diameter)
		if !gok {
			ctx.Warn("dimension location coincides with the center")
			return command.NoOp("Specify dimension line location")
		}
		kind := entity.DimRadius
		if h.diameter {
			kind = entity.DimDiameter
		}
		id, err := ctx.AddEntity(entity.NewDimension(entity.Dimension{
			Kind:        kind,
			P3:          e.Center,
			Location:    p,
			Line1:       g.Line1,
			Line2:       g.Line2,
			TextAnchor:  g.TextAnchor,
			Rotation:    g.Rotation,
			Measurement: g.Length,
		}))
		if err != nil {
			return command.Fail(err)
		}
		ctx.Publish(event.TopicEntityAdded, id)
		ctx.Reset(1)
		return command.Continue("Select circle or arc").WithCreated(id)
	}
	return command.NoOp("")
}

func (h *radialHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" && ctx.Step == 1 {
		return command.Done()
	}
	return command.NoOp("")
}

func (h *radialHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

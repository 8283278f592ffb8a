package draw

import (
	"math"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// circleHandler: center click, then radius click or typed radius.
// Loops back to step 1 after each circle until cancelled.
type circleHandler struct {
	center geom.Point
}

func (h *circleHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify center point")
}

func (h *circleHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.center = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify radius")
	case 2:
		return h.commit(ctx, h.center.DistanceTo(p))
	}
	return command.NoOp("")
}

func (h *circleHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 2 || text == "" {
		return command.NoOp("Specify radius")
	}
	r, err := parseFloat(text)
	if err != nil {
		return command.NoOp("Specify radius")
	}
	return h.commit(ctx, r)
}

func (h *circleHandler) commit(ctx *command.Context, radius float64) command.Result {
	if radius <= geom.Epsilon {
		ctx.Warn("circle radius must be positive")
		ctx.Reset(1)
		return command.Continue("Specify center point")
	}
	id, err := ctx.AddEntity(entity.NewCircle(h.center, radius))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify center point").WithCreated(id)
}

func (h *circleHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// arcHandler: three points on the arc; the circumcenter fixes center
// and radius, the sweep runs from the first through the second to the
// third point. Collinear points are degenerate and reset the command.
type arcHandler struct{}

func (h *arcHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify arc start point")
}

func (h *arcHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	ctx.PushTemp(p)
	switch len(ctx.Temp) {
	case 1:
		ctx.Advance()
		return command.Continue("Specify second point on arc")
	case 2:
		ctx.Advance()
		return command.Continue("Specify arc end point")
	}

	p1, p2, p3 := ctx.Temp[0], ctx.Temp[1], ctx.Temp[2]
	center, ok := geom.Circumcenter(p1, p2, p3)
	if !ok {
		ctx.Warn("arc points are collinear")
		ctx.Reset(1)
		return command.Continue("Specify arc start point")
	}
	radius := center.DistanceTo(p1)
	a1 := p1.Sub(center).Angle()
	a2 := p2.Sub(center).Angle()
	a3 := p3.Sub(center).Angle()
	start, end := a1, a3
	if !geom.AngleOnArc(a2, a1, a3) {
		start, end = a3, a1
	}
	id, err := ctx.AddEntity(entity.NewArc(center, radius, start, end))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify arc start point").WithCreated(id)
}

func (h *arcHandler) OnValue(ctx *command.Context, text string) command.Result {
	return command.NoOp("Specify point on arc")
}

func (h *arcHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// ellipseHandler: center, major-axis endpoint (radius and rotation),
// then minor radius by click distance or typed value.
type ellipseHandler struct {
	center   geom.Point
	radiusX  float64
	rotation float64
}

func (h *ellipseHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify ellipse center")
}

func (h *ellipseHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.center = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify major axis endpoint")
	case 2:
		h.radiusX = h.center.DistanceTo(p)
		if h.radiusX <= geom.Epsilon {
			return command.NoOp("Specify major axis endpoint")
		}
		h.rotation = p.Sub(h.center).Angle()
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify minor axis distance")
	case 3:
		return h.commit(ctx, h.center.DistanceTo(p))
	}
	return command.NoOp("")
}

func (h *ellipseHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 3 || text == "" {
		return command.NoOp("Specify minor axis distance")
	}
	ry, err := parseFloat(text)
	if err != nil {
		return command.NoOp("Specify minor axis distance")
	}
	return h.commit(ctx, ry)
}

func (h *ellipseHandler) commit(ctx *command.Context, radiusY float64) command.Result {
	if radiusY <= geom.Epsilon {
		ctx.Warn("ellipse radius must be positive")
		ctx.Reset(1)
		return command.Continue("Specify ellipse center")
	}
	id, err := ctx.AddEntity(entity.NewEllipse(h.center, h.radiusX, radiusY, h.rotation))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify ellipse center").WithCreated(id)
}

func (h *ellipseHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// donutHandler: center, inner radius, outer radius. An outer radius
// not exceeding the inner one creates nothing and resets.
type donutHandler struct {
	center geom.Point
	inner  float64
}

func (h *donutHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify donut center")
}

func (h *donutHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.center = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify inner radius")
	case 2:
		h.inner = h.center.DistanceTo(p)
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify outer radius")
	case 3:
		return h.commit(ctx, h.center.DistanceTo(p))
	}
	return command.NoOp("")
}

func (h *donutHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text == "" {
		return command.NoOp("")
	}
	v, err := parseFloat(text)
	if err != nil {
		return command.NoOp("")
	}
	switch ctx.Step {
	case 2:
		h.inner = v
		ctx.Advance()
		return command.Continue("Specify outer radius")
	case 3:
		return h.commit(ctx, v)
	}
	return command.NoOp("")
}

func (h *donutHandler) commit(ctx *command.Context, outer float64) command.Result {
	if outer <= h.inner || outer <= geom.Epsilon {
		ctx.Warn("donut outer radius %v must exceed inner radius %v", outer, h.inner)
		ctx.Reset(1)
		return command.Continue("Specify donut center")
	}
	id, err := ctx.AddEntity(entity.NewDonut(h.center, h.inner, outer))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify donut center").WithCreated(id)
}

func (h *donutHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// polygonHandler: typed side count, center click, vertex click. The
// vertex click fixes both the circumradius and the orientation.
type polygonHandler struct {
	sides  int
	center geom.Point
}

func (h *polygonHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Enter number of sides")
}

func (h *polygonHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 1 || text == "" {
		return command.NoOp("")
	}
	n, err := parseInt(text)
	if err != nil || n < 3 {
		ctx.Warn("polygon needs at least 3 sides")
		return command.NoOp("Enter number of sides")
	}
	h.sides = n
	ctx.Advance()
	return command.Continue("Specify polygon center")
}

func (h *polygonHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 2:
		h.center = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify first vertex")
	case 3:
		radius := h.center.DistanceTo(p)
		if radius <= geom.Epsilon {
			return command.NoOp("Specify first vertex")
		}
		base := p.Sub(h.center).Angle()
		verts := make([]geom.Point, h.sides)
		for i := 0; i < h.sides; i++ {
			a := base + 2*math.Pi*float64(i)/float64(h.sides)
			verts[i] = h.center.Polar(a, radius)
		}
		id, err := ctx.AddEntity(entity.NewPolyline(verts, true))
		if err != nil {
			return command.Fail(err)
		}
		ctx.Reset(2)
		return command.Continue("Specify polygon center").WithCreated(id)
	}
	return command.NoOp("Enter number of sides")
}

func (h *polygonHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// rectangleHandler: two opposite corners make a closed 4-vertex
// polyline. Zero width or height is degenerate.
type rectangleHandler struct {
	first geom.Point
}

func (h *rectangleHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first corner")
}

func (h *rectangleHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step == 1 {
		h.first = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify opposite corner")
	}
	if math.Abs(p.X-h.first.X) <= geom.Epsilon || math.Abs(p.Y-h.first.Y) <= geom.Epsilon {
		ctx.Warn("rectangle corners are collinear")
		ctx.Reset(1)
		return command.Continue("Specify first corner")
	}
	verts := []geom.Point{
		h.first,
		{X: p.X, Y: h.first.Y, Z: h.first.Z},
		p,
		{X: h.first.X, Y: p.Y, Z: h.first.Z},
	}
	id, err := ctx.AddEntity(entity.NewPolyline(verts, true))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Reset(1)
	return command.Continue("Specify first corner").WithCreated(id)
}

func (h *rectangleHandler) OnValue(ctx *command.Context, text string) command.Result {
	return command.NoOp("Specify corner")
}

func (h *rectangleHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

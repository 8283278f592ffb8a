package modify

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// offsetHandler: typed distance, target pick, then a click choosing
// the side. The side is the sign of the dot product of the click
// offset with the entity's local normal.
type offsetHandler struct {
	distance float64
	targetID uint64
}

func (h *offsetHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Enter offset distance")
}

func (h *offsetHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 1 || text == "" {
		return command.NoOp("")
	}
	d, err := parseFloat(text)
	if err != nil || d <= geom.Epsilon {
		ctx.Warn("offset distance must be positive")
		return command.NoOp("Enter offset distance")
	}
	h.distance = d
	ctx.Advance()
	return command.Continue("Select entity to offset")
}

func (h *offsetHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 2:
		id, ok := ctx.Selection().HitTest(p)
		if !ok {
			return command.NoOp("Select entity to offset")
		}
		e, _ := ctx.Store().Get(id)
		switch e.Kind {
		case entity.KindLine, entity.KindCircle, entity.KindArc, entity.KindPolyline:
			h.targetID = id
			ctx.Advance()
			return command.Continue("Specify side to offset")
		default:
			ctx.Warn("cannot offset %s entities", e.Kind)
			return command.NoOp("Select entity to offset")
		}
	case 3:
		e, ok := ctx.Store().Get(h.targetID)
		if !ok {
			ctx.Reset(2)
			return command.Continue("Select entity to offset")
		}
		off, ok := offsetEntity(e, p, h.distance)
		if !ok {
			ctx.Warn("offset collapses the entity")
			ctx.Reset(2)
			return command.Continue("Select entity to offset")
		}
		id, err := ctx.AddEntity(off)
		if err != nil {
			return command.Fail(err)
		}
		ctx.Reset(2)
		return command.Continue("Select entity to offset").WithCreated(id)
	}
	return command.NoOp("Enter offset distance")
}

func (h *offsetHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// offsetEntity builds the parallel copy of e at distance d on the side
// of the click.
func offsetEntity(e entity.Entity, click geom.Point, d float64) (entity.Entity, bool) {
	switch e.Kind {
	case entity.KindLine:
		dir, ok := e.End.Sub(e.Start).Unit()
		if !ok {
			return entity.Entity{}, false
		}
		n := dir.Normal()
		if click.Sub(e.Start).Dot(n) < 0 {
			n = n.Mul(-1)
		}
		shift := n.Mul(d)
		return entity.NewLine(e.Start.Add(shift), e.End.Add(shift)), true

	case entity.KindCircle:
		r := offsetRadius(e.Radius, e.Center, click, d)
		if r <= geom.Epsilon {
			return entity.Entity{}, false
		}
		return entity.NewCircle(e.Center, r), true

	case entity.KindArc:
		r := offsetRadius(e.Radius, e.Center, click, d)
		if r <= geom.Epsilon {
			return entity.Entity{}, false
		}
		return entity.NewArc(e.Center, r, e.StartAngle, e.EndAngle), true

	case entity.KindPolyline:
		verts, ok := offsetPolyline(e.Vertices, e.Closed, click, d)
		if !ok {
			return entity.Entity{}, false
		}
		return entity.NewPolyline(verts, e.Closed), true
	}
	return entity.Entity{}, false
}

// offsetRadius grows the radius when the click is outside the circle
// and shrinks it when inside.
func offsetRadius(r float64, center, click geom.Point, d float64) float64 {
	if center.DistanceTo(click) >= r {
		return r + d
	}
	return r - d
}

// offsetPolyline shifts every segment by d toward the click side and
// re-intersects consecutive segments to form miter joins. Parallel
// neighbors keep the plain shifted vertex.
func offsetPolyline(vertices []geom.Point, closed bool, click geom.Point, d float64) ([]geom.Point, bool) {
	n := len(vertices)
	if n < 2 {
		return nil, false
	}

	// Side from the segment nearest the click.
	bestDist := -1.0
	side := 1.0
	segs := make([][2]geom.Point, 0, n)
	for i := 0; i+1 < n; i++ {
		segs = append(segs, [2]geom.Point{vertices[i], vertices[i+1]})
	}
	if closed {
		segs = append(segs, [2]geom.Point{vertices[n-1], vertices[0]})
	}
	for _, s := range segs {
		dist := geom.DistanceToSegment(click, s[0], s[1])
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			dir, ok := s[1].Sub(s[0]).Unit()
			if !ok {
				continue
			}
			if click.Sub(s[0]).Dot(dir.Normal()) >= 0 {
				side = 1
			} else {
				side = -1
			}
		}
	}

	shifted := make([][2]geom.Point, len(segs))
	for i, s := range segs {
		dir, ok := s[1].Sub(s[0]).Unit()
		if !ok {
			return nil, false
		}
		shift := dir.Normal().Mul(d * side)
		shifted[i] = [2]geom.Point{s[0].Add(shift), s[1].Add(shift)}
	}

	out := make([]geom.Point, n)
	for i := range out {
		if !closed && i == 0 {
			out[i] = shifted[0][0]
			continue
		}
		if !closed && i == n-1 {
			out[i] = shifted[len(shifted)-1][1]
			continue
		}
		var prev [2]geom.Point
		if i == 0 {
			prev = shifted[len(shifted)-1]
		} else {
			prev = shifted[i-1]
		}
		next := shifted[i%len(shifted)]
		if x, ok := geom.LineIntersection(prev[0], prev[1], next[0], next[1]); ok {
			out[i] = x
		} else {
			out[i] = next[0]
		}
	}
	return out, true
}

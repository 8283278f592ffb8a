package modify

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// farReach extends a segment far enough to act as an infinite line
// for boundary intersection.
const farReach = 1e6

// edgeCollector is the shared first phase of TRIM and EXTEND: clicks
// accumulate cutting-edge/boundary entity ids until the empty confirm.
type edgeCollector struct {
	edges     map[uint64]bool
	collected bool
}

func (c *edgeCollector) begin() {
	c.edges = make(map[uint64]bool)
}

func (c *edgeCollector) onPoint(ctx *command.Context, p geom.Point, noun string) (command.Result, bool) {
	if c.collected {
		return command.Result{}, false
	}
	id, ok := ctx.Selection().HitTest(p)
	if !ok {
		return command.NoOp("Select " + noun), true
	}
	if c.edges[id] {
		delete(c.edges, id)
	} else {
		c.edges[id] = true
	}
	return command.Continuef("%d %s selected, press Enter to finish", len(c.edges), noun), true
}

func (c *edgeCollector) finish(ctx *command.Context, text, noun string) (command.Result, bool) {
	if c.collected || text != "" {
		return command.Result{}, false
	}
	if len(c.edges) == 0 {
		return command.Abort(), true
	}
	c.collected = true
	ctx.Advance()
	return command.Continue("Select entity near the part to " + noun), true
}

func (c *edgeCollector) entities(ctx *command.Context) []entity.Entity {
	out := make([]entity.Entity, 0, len(c.edges))
	for id := range c.edges {
		if e, ok := ctx.Store().Get(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// trimHandler cuts the clicked span of a target out at its
// intersections with the collected cutting edges.
type trimHandler struct {
	col edgeCollector
}

func (h *trimHandler) Start(ctx *command.Context) command.Result {
	h.col.begin()
	return command.Continue("Select cutting edges, press Enter to finish")
}

func (h *trimHandler) OnValue(ctx *command.Context, text string) command.Result {
	if res, ok := h.col.finish(ctx, text, "trim"); ok {
		return res
	}
	return command.NoOp("")
}

func (h *trimHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.col.onPoint(ctx, p, "cutting edges"); ok {
		return res
	}

	id, ok := ctx.Selection().HitTest(p)
	if !ok || h.col.edges[id] {
		return command.NoOp("Select entity to trim")
	}
	target, _ := ctx.Store().Get(id)

	cuts := h.intersections(ctx, target)
	if len(cuts) == 0 {
		ctx.Warn("no intersection between target and cutting edges")
		return command.NoOp("Select entity to trim")
	}

	replacements, changed := trimTarget(target, p, cuts)
	if !changed {
		return command.NoOp("Select entity to trim")
	}
	var created []uint64
	err := ctx.Commit(func() error {
		ctx.Store().Delete([]uint64{id})
		for _, r := range replacements {
			newID, err := ctx.Store().Add(r)
			if err != nil {
				return err
			}
			created = append(created, newID)
		}
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityDeleted, id)
	return command.Continue("Select entity to trim").WithCreated(created...)
}

func (h *trimHandler) intersections(ctx *command.Context, target entity.Entity) []geom.Point {
	var cuts []geom.Point
	for _, edge := range h.col.entities(ctx) {
		if edge.ID == target.ID {
			continue
		}
		cuts = append(cuts, entity.Intersections(target, edge)...)
	}
	return cuts
}

func (h *trimHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// trimTarget computes the surviving geometry after cutting the span
// around the click out of the target.
func trimTarget(target entity.Entity, click geom.Point, cuts []geom.Point) ([]entity.Entity, bool) {
	switch target.Kind {
	case entity.KindLine:
		kept, changed := geom.TrimLine(target.Start, target.End, click, cuts)
		if !changed {
			return nil, false
		}
		out := make([]entity.Entity, 0, len(kept))
		for _, seg := range kept {
			e := target.Clone()
			e.ID = 0
			e.Start, e.End = seg[0], seg[1]
			out = append(out, e)
		}
		return out, true

	case entity.KindCircle:
		span, changed := geom.TrimCircle(target.Center, click, cuts)
		if !changed {
			return nil, false
		}
		arc := entity.NewArc(target.Center, target.Radius, span.Start, span.End)
		arc.Layer, arc.Color = target.Layer, target.Color
		arc.LineType, arc.LineWeight = target.LineType, target.LineWeight
		return []entity.Entity{arc}, true

	case entity.KindArc:
		spans, changed := geom.TrimArc(target.Center, target.StartAngle, target.EndAngle, click, cuts)
		if !changed {
			return nil, false
		}
		out := make([]entity.Entity, 0, len(spans))
		for _, span := range spans {
			e := target.Clone()
			e.ID = 0
			e.StartAngle, e.EndAngle = span.Start, span.End
			out = append(out, e)
		}
		return out, true
	}
	return nil, false
}

// extendHandler lengthens the clicked end of a target line to its
// nearest boundary intersection.
type extendHandler struct {
	col edgeCollector
}

func (h *extendHandler) Start(ctx *command.Context) command.Result {
	h.col.begin()
	return command.Continue("Select boundary edges, press Enter to finish")
}

func (h *extendHandler) OnValue(ctx *command.Context, text string) command.Result {
	if res, ok := h.col.finish(ctx, text, "extend"); ok {
		return res
	}
	return command.NoOp("")
}

func (h *extendHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.col.onPoint(ctx, p, "boundary edges"); ok {
		return res
	}

	id, ok := ctx.Selection().HitTest(p)
	if !ok || h.col.edges[id] {
		return command.NoOp("Select entity to extend")
	}
	target, _ := ctx.Store().Get(id)
	if target.Kind != entity.KindLine {
		ctx.Warn("cannot extend %s entities", target.Kind)
		return command.NoOp("Select entity to extend")
	}

	hits := h.reachIntersections(ctx, target)
	newA, newB, ok := geom.ExtendLine(target.Start, target.End, p, hits)
	if !ok {
		ctx.Warn("no boundary ahead of the clicked end")
		return command.NoOp("Select entity to extend")
	}
	err := ctx.Commit(func() error {
		return ctx.Store().Update(id, func(e *entity.Entity) {
			e.Start, e.End = newA, newB
		})
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityUpdated, id)
	return command.Continue("Select entity to extend")
}

// reachIntersections intersects the boundaries with the target's
// carrier line, stretched far past both ends.
func (h *extendHandler) reachIntersections(ctx *command.Context, target entity.Entity) []geom.Point {
	dir, ok := target.End.Sub(target.Start).Unit()
	if !ok {
		return nil
	}
	carrier := target.Clone()
	carrier.Start = target.Start.Sub(dir.Mul(farReach))
	carrier.End = target.End.Add(dir.Mul(farReach))

	var hits []geom.Point
	for _, edge := range h.col.entities(ctx) {
		if edge.ID == target.ID {
			continue
		}
		hits = append(hits, entity.Intersections(carrier, edge)...)
	}
	return hits
}

func (h *extendHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

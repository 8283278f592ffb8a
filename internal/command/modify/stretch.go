package modify

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// stretchHandler: a crossing window classifies entities as fully
// enclosed (translated whole) or partially overlapping (only the
// vertices inside the box move), then base and destination points
// supply the displacement. Circular entities move only when their
// center is inside the box.
type stretchHandler struct {
	boxFirst geom.Point
	box      geom.Box
	enclosed []uint64
	partial  []uint64
	base     geom.Point
}

func (h *stretchHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Specify first corner of crossing window")
}

func (h *stretchHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	switch ctx.Step {
	case 1:
		h.boxFirst = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify opposite corner")
	case 2:
		h.box = geom.BoxFromCorners(h.boxFirst, p)
		h.classify(ctx)
		if len(h.enclosed) == 0 && len(h.partial) == 0 {
			ctx.Warn("nothing inside the stretch window")
			ctx.Reset(1)
			return command.Continue("Specify first corner of crossing window")
		}
		ctx.Advance()
		return command.Continuef("%d entities caught, specify base point", len(h.enclosed)+len(h.partial))
	case 3:
		h.base = p
		ctx.PushTemp(p)
		ctx.Advance()
		return command.Continue("Specify destination point")
	case 4:
		return h.commit(ctx, p.Sub(h.base))
	}
	return command.NoOp("")
}

// classify splits the crossing capture into whole-move and
// vertex-stretch sets.
func (h *stretchHandler) classify(ctx *command.Context) {
	h.enclosed = nil
	h.partial = nil
	for _, e := range ctx.Store().All() {
		if !e.Visible || e.Locked || ctx.Store().LayerLocked(e.Layer) {
			continue
		}
		switch {
		case e.ContainedIn(h.box):
			h.enclosed = append(h.enclosed, e.ID)
		case e.IntersectsBox(h.box):
			h.partial = append(h.partial, e.ID)
		}
	}
}

func (h *stretchHandler) commit(ctx *command.Context, d geom.Point) command.Result {
	tr := geom.Translation(d.X, d.Y)
	err := ctx.Commit(func() error {
		for _, id := range h.enclosed {
			if err := ctx.Store().Update(id, func(e *entity.Entity) {
				*e = e.Transformed(tr)
			}); err != nil {
				return err
			}
		}
		for _, id := range h.partial {
			if err := ctx.Store().Update(id, func(e *entity.Entity) {
				stretchEntity(e, h.box, d)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityUpdated, append(append([]uint64(nil), h.enclosed...), h.partial...))
	return command.Done()
}

// stretchEntity moves only the defining points that fall inside the
// box. Circular variants translate whole when their center is caught;
// insertion-point variants likewise.
func stretchEntity(e *entity.Entity, box geom.Box, d geom.Point) {
	move := func(p geom.Point) geom.Point {
		if box.ContainsPoint(p) {
			return p.Add(d)
		}
		return p
	}
	switch e.Kind {
	case entity.KindLine, entity.KindRay, entity.KindXLine:
		e.Start = move(e.Start)
		e.End = move(e.End)
	case entity.KindPolyline, entity.KindSpline, entity.KindHatch:
		for i, v := range e.Vertices {
			e.Vertices[i] = move(v)
		}
	case entity.KindCircle, entity.KindArc, entity.KindEllipse, entity.KindDonut:
		e.Center = move(e.Center)
	case entity.KindPoint, entity.KindText, entity.KindMText, entity.KindTable, entity.KindBlockRef:
		e.Position = move(e.Position)
	case entity.KindDim:
		if e.Dim == nil {
			return
		}
		d2 := *e.Dim
		d2.P1 = move(d2.P1)
		d2.P2 = move(d2.P2)
		d2.P3 = move(d2.P3)
		d2.Location = move(d2.Location)
		d2.Line1 = move(d2.Line1)
		d2.Line2 = move(d2.Line2)
		d2.TextAnchor = move(d2.TextAnchor)
		e.Dim = &d2
	}
}

func (h *stretchHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

func (h *stretchHandler) OnValue(ctx *command.Context, text string) command.Result {
	return command.NoOp("")
}

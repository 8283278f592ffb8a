package modify

import (
	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// joinHandler accumulates LINE and ARC entities by click, then
// chain-walks matching endpoints into one polyline per connected run,
// replacing the originals.
type joinHandler struct {
	members map[uint64]bool
}

func (h *joinHandler) Start(ctx *command.Context) command.Result {
	h.members = make(map[uint64]bool)
	for _, id := range ctx.Selection().IDs() {
		if e, ok := ctx.Store().Get(id); ok && joinable(e) {
			h.members[id] = true
		}
	}
	return command.Continue("Select lines and arcs to join, press Enter to finish")
}

func joinable(e entity.Entity) bool {
	return e.Kind == entity.KindLine || e.Kind == entity.KindArc
}

func (h *joinHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	id, ok := ctx.Selection().HitTest(p)
	if !ok {
		return command.NoOp("Select lines and arcs to join")
	}
	e, _ := ctx.Store().Get(id)
	if !joinable(e) {
		ctx.Warn("JOIN only accepts lines and arcs, got %s", e.Kind)
		return command.NoOp("Select lines and arcs to join")
	}
	if h.members[id] {
		delete(h.members, id)
	} else {
		h.members[id] = true
	}
	return command.Continuef("%d entities marked, press Enter to join", len(h.members))
}

func (h *joinHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text != "" {
		return command.NoOp("")
	}
	if len(h.members) < 2 {
		return command.Abort()
	}

	tol := ctx.Settings().JoinTolerance
	type link struct {
		id   uint64
		a, b geom.Point
	}
	links := make([]link, 0, len(h.members))
	for id := range h.members {
		e, ok := ctx.Store().Get(id)
		if !ok {
			continue
		}
		a, b := endpointsOf(e)
		links = append(links, link{id: id, a: a, b: b})
	}

	// Chain-walk: repeatedly grow a run at both ends until no link
	// attaches, one polyline per run.
	used := make(map[uint64]bool)
	var runs [][]geom.Point
	var replaced []uint64
	for _, seed := range links {
		if used[seed.id] {
			continue
		}
		used[seed.id] = true
		run := []geom.Point{seed.a, seed.b}
		ids := []uint64{seed.id}
		for grown := true; grown; {
			grown = false
			for _, l := range links {
				if used[l.id] {
					continue
				}
				head, tail := run[0], run[len(run)-1]
				switch {
				case l.a.DistanceTo(tail) <= tol:
					run = append(run, l.b)
				case l.b.DistanceTo(tail) <= tol:
					run = append(run, l.a)
				case l.a.DistanceTo(head) <= tol:
					run = append([]geom.Point{l.b}, run...)
				case l.b.DistanceTo(head) <= tol:
					run = append([]geom.Point{l.a}, run...)
				default:
					continue
				}
				used[l.id] = true
				ids = append(ids, l.id)
				grown = true
			}
		}
		if len(ids) < 2 {
			used[seed.id] = true
			continue
		}
		runs = append(runs, run)
		replaced = append(replaced, ids...)
	}
	if len(runs) == 0 {
		ctx.Warn("no connected endpoints within tolerance")
		return command.Abort()
	}

	var created []uint64
	err := ctx.Commit(func() error {
		ctx.Store().Delete(replaced)
		for _, run := range runs {
			closed := len(run) > 3 && run[0].DistanceTo(run[len(run)-1]) <= tol
			if closed {
				run = run[:len(run)-1]
			}
			id, err := ctx.Store().Add(entity.NewPolyline(run, closed))
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
	ctx.Publish(event.TopicEntityDeleted, replaced)
	return command.Done().WithCreated(created...)
}

// endpointsOf returns the two connection points of a line or arc.
func endpointsOf(e entity.Entity) (geom.Point, geom.Point) {
	if e.Kind == entity.KindArc {
		return e.Center.Polar(e.StartAngle, e.Radius), e.Center.Polar(e.EndAngle, e.Radius)
	}
	return e.Start, e.End
}

func (h *joinHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// explodeHandler decomposes LWPOLYLINE entities into LINE segments:
// click picks one, the empty confirm explodes the whole selection.
type explodeHandler struct{}

func (h *explodeHandler) Start(ctx *command.Context) command.Result {
	return command.Continue("Select polyline to explode")
}

func (h *explodeHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	id, ok := ctx.Selection().HitTest(p)
	if !ok {
		return command.NoOp("Select polyline to explode")
	}
	e, _ := ctx.Store().Get(id)
	if e.Kind != entity.KindPolyline {
		ctx.Warn("EXPLODE only works on polylines, got %s", e.Kind)
		return command.NoOp("Select polyline to explode")
	}
	created, err := explodeOne(ctx, e)
	if err != nil {
		return command.Fail(err)
	}
	return command.Continue("Select polyline to explode").WithCreated(created...)
}

func (h *explodeHandler) OnValue(ctx *command.Context, text string) command.Result {
	if text != "" {
		return command.NoOp("")
	}
	var all []uint64
	for _, id := range ctx.Selection().IDs() {
		e, ok := ctx.Store().Get(id)
		if !ok || e.Kind != entity.KindPolyline {
			continue
		}
		created, err := explodeOne(ctx, e)
		if err != nil {
			return command.Fail(err)
		}
		all = append(all, created...)
	}
	if len(all) == 0 {
		return command.Abort()
	}
	return command.Done().WithCreated(all...)
}

// explodeOne replaces a polyline with its constituent segments as one
// history item.
func explodeOne(ctx *command.Context, e entity.Entity) ([]uint64, error) {
	var created []uint64
	err := ctx.Commit(func() error {
		ctx.Store().Delete([]uint64{e.ID})
		n := len(e.Vertices)
		last := n - 1
		if e.Closed {
			last = n
		}
		for i := 0; i < last; i++ {
			seg := entity.NewLine(e.Vertices[i], e.Vertices[(i+1)%n])
			seg.Layer, seg.Color = e.Layer, e.Color
			seg.LineType, seg.LineWeight = e.LineType, e.LineWeight
			id, err := ctx.Store().Add(seg)
			if err != nil {
				return err
			}
			created = append(created, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ctx.Publish(event.TopicEntityDeleted, e.ID)
	return created, nil
}

func (h *explodeHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// eraseHandler deletes the selection, or entities picked by click.
// Locked-layer entities survive with a warning.
type eraseHandler struct {
	pick entityPicker
}

func (h *eraseHandler) Start(ctx *command.Context) command.Result {
	if ctx.Selection().Len() > 0 {
		return h.erase(ctx)
	}
	h.pick.begin(ctx)
	return command.Continue("Select entities to erase, press Enter to finish")
}

func (h *eraseHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if res, ok := h.pick.onPoint(ctx, p); ok {
		return res
	}
	return command.NoOp("Select entities to erase")
}

func (h *eraseHandler) OnValue(ctx *command.Context, text string) command.Result {
	if consumed, aborted := h.pick.finish(ctx, text); consumed {
		if aborted {
			return command.Abort()
		}
		return h.erase(ctx)
	}
	return command.NoOp("")
}

func (h *eraseHandler) erase(ctx *command.Context) command.Result {
	ids := ctx.Selection().IDs()
	var deleted []uint64
	err := ctx.Commit(func() error {
		var warnings []string
		deleted, warnings = ctx.Store().Delete(ids)
		for _, w := range warnings {
			ctx.Warn("%s", w)
		}
		ctx.Selection().Clear()
		return nil
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityDeleted, deleted)
	ctx.Publish(event.TopicSelectionChanged, []uint64{})
	return command.Done()
}

func (h *eraseHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

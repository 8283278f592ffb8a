package modify

import (
	"math"
	"testing"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
	"github.com/draftsmith/draftsmith/internal/history"
	"github.com/draftsmith/draftsmith/internal/selection"
	"github.com/draftsmith/draftsmith/internal/store"
)

type fixture struct {
	st  *store.Store
	sel *selection.Manager
	h   command.Handler
	ctx *command.Context
}

// begin instantiates the handler after the caller has seeded store and
// selection, mirroring how the session activates commands.
func begin(t *testing.T, name command.Name, st *store.Store, sel *selection.Manager) *fixture {
	t.Helper()
	reg := command.NewRegistry()
	Register(reg)
	h, err := reg.New(name)
	if err != nil {
		t.Fatalf("registry.New(%s): %v", name, err)
	}
	ctx := command.NewContext(name, st, sel, history.New(0), nil, nil, command.DefaultSettings())
	h.Start(ctx)
	return &fixture{st: st, sel: sel, h: h, ctx: ctx}
}

func seeded(t *testing.T) (*store.Store, *selection.Manager) {
	t.Helper()
	st := store.New(nil)
	return st, selection.New(st, nil)
}

func (f *fixture) click(x, y float64) command.Result {
	return f.h.OnPoint(f.ctx, geom.Pt(x, y))
}

func (f *fixture) value(text string) command.Result {
	return f.h.OnValue(f.ctx, text)
}

func TestMove(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 0)))
	sel.Toggle(id)

	f := begin(t, command.Move, st, sel)
	f.click(0, 0)
	res := f.click(5, 5)
	if res.Status != command.StatusDone {
		t.Fatalf("move status = %v, want done", res.Status)
	}
	e, _ := st.Get(id)
	if e.Start != geom.Pt(5, 5) || e.End != geom.Pt(15, 5) {
		t.Errorf("moved line = %v -> %v, want (5,5) -> (15,5)", e.Start, e.End)
	}
}

func TestMovePickPhase(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewCircle(geom.Pt(0, 0), 10))

	f := begin(t, command.Move, st, sel)
	f.click(10, 0) // on the circle: picks it
	if !sel.Has(id) {
		t.Fatal("pick-phase click did not select the circle")
	}
	f.value("") // finish picking
	f.click(0, 0)
	f.click(100, 0)
	e, _ := st.Get(id)
	if e.Center != geom.Pt(100, 0) {
		t.Errorf("center = %v, want (100,0)", e.Center)
	}
}

func TestCopyKeepsOriginal(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewCircle(geom.Pt(0, 0), 5))
	sel.Toggle(id)

	f := begin(t, command.Copy, st, sel)
	f.click(0, 0)
	f.click(20, 0)
	f.click(40, 0) // a second copy

	if st.Len() != 3 {
		t.Fatalf("store has %d entities after two copies, want 3", st.Len())
	}
	if _, ok := st.Get(id); !ok {
		t.Error("original gone after copy")
	}
}

func TestRotateTyped(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 0)))
	sel.Toggle(id)

	f := begin(t, command.Rotate, st, sel)
	f.click(0, 0)
	f.value("90")
	e, _ := st.Get(id)
	if e.End.DistanceTo(geom.Pt(0, 10)) > 1e-9 {
		t.Errorf("rotated end = %v, want (0,10)", e.End)
	}
}

func TestScaleByRatio(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewCircle(geom.Pt(0, 0), 5))
	sel.Toggle(id)

	f := begin(t, command.Scale, st, sel)
	f.click(0, 0)  // base
	f.click(10, 0) // reference distance 10
	f.click(30, 0) // new distance 30: factor 3
	e, _ := st.Get(id)
	if math.Abs(e.Radius-15) > 1e-9 {
		t.Errorf("scaled radius = %v, want 15", e.Radius)
	}
}

func TestMirror(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewPoint(geom.Pt(3, 1)))
	sel.Toggle(id)

	f := begin(t, command.Mirror, st, sel)
	f.click(0, 0)
	f.click(0, 10) // mirror across the Y axis
	e, _ := st.Get(id)
	if e.Position.DistanceTo(geom.Pt(-3, 1)) > 1e-9 {
		t.Errorf("mirrored point = %v, want (-3,1)", e.Position)
	}
}

func TestOffsetLineSide(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 0)))

	f := begin(t, command.Offset, st, sel)
	f.value("10")
	f.click(50, 0)  // pick the line
	f.click(50, 30) // side above

	all := st.All()
	if len(all) != 2 {
		t.Fatalf("store has %d entities, want 2", len(all))
	}
	off := all[1]
	if math.Abs(off.Start.Y-10) > 1e-9 || math.Abs(off.End.Y-10) > 1e-9 {
		t.Errorf("offset line at y=%v..%v, want y=10", off.Start.Y, off.End.Y)
	}

	f.click(50, 10)  // pick the new line
	f.click(50, -50) // side below
	all = st.All()
	down := all[2]
	if math.Abs(down.Start.Y-0) > 1e-9 {
		t.Errorf("second offset at y=%v, want 0", down.Start.Y)
	}
}

func TestOffsetCircle(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewCircle(geom.Pt(0, 0), 10))

	f := begin(t, command.Offset, st, sel)
	f.value("5")
	f.click(10, 0) // pick circle
	f.click(50, 0) // outside: grow
	all := st.All()
	if len(all) != 2 || math.Abs(all[1].Radius-15) > 1e-9 {
		t.Fatalf("outward offset radius = %v, want 15", all[1].Radius)
	}
}

func TestTrimLineMiddle(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewLine(geom.Pt(30, -10), geom.Pt(30, 10))) // cutter 1
	st.Add(entity.NewLine(geom.Pt(70, -10), geom.Pt(70, 10))) // cutter 2
	st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 0)))    // target

	f := begin(t, command.Trim, st, sel)
	f.click(30, 5) // select cutter 1 away from the target
	f.click(70, 5) // select cutter 2
	f.value("")    // finish edges
	f.click(50, 0) // trim the middle of the target

	// The middle span is gone: two target pieces plus two cutters.
	if st.Len() != 4 {
		t.Fatalf("store has %d entities after trim, want 4", st.Len())
	}
	for _, e := range st.All() {
		if e.Kind != entity.KindLine {
			continue
		}
		if e.Start.Y == 0 && e.End.Y == 0 {
			inMiddle := e.Start.X > 30+1e-9 && e.Start.X < 70-1e-9
			if inMiddle {
				t.Errorf("segment %v -> %v survives inside the trimmed span", e.Start, e.End)
			}
		}
	}
}

func TestExtendLine(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewLine(geom.Pt(100, -50), geom.Pt(100, 50))) // boundary
	target, _ := st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(50, 0)))

	f := begin(t, command.Extend, st, sel)
	f.click(100, 20) // pick boundary
	f.value("")
	f.click(48, 0) // click near the end to extend

	e, _ := st.Get(target)
	if e.End.DistanceTo(geom.Pt(100, 0)) > 1e-9 {
		t.Errorf("extended end = %v, want (100,0)", e.End)
	}
}

func TestFilletRightAngle(t *testing.T) {
	st, sel := seeded(t)
	l1, _ := st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 0)))
	l2, _ := st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(0, 100)))

	f := begin(t, command.Fillet, st, sel)
	f.value("10")
	f.click(60, 0)
	f.click(0, 60)

	// tangent distance r/tan(45°) = r
	e1, _ := st.Get(l1)
	e2, _ := st.Get(l2)
	d1 := math.Min(e1.Start.DistanceTo(geom.Pt(0, 0)), e1.End.DistanceTo(geom.Pt(0, 0)))
	d2 := math.Min(e2.Start.DistanceTo(geom.Pt(0, 0)), e2.End.DistanceTo(geom.Pt(0, 0)))
	if math.Abs(d1-10) > 1e-9 || math.Abs(d2-10) > 1e-9 {
		t.Errorf("trimmed ends at %v and %v from corner, want 10", d1, d2)
	}

	var arc *entity.Entity
	for _, e := range st.All() {
		if e.Kind == entity.KindArc {
			c := e
			arc = &c
		}
	}
	if arc == nil {
		t.Fatal("no fillet arc created")
	}
	if math.Abs(arc.Radius-10) > 1e-9 {
		t.Errorf("fillet arc radius = %v, want 10", arc.Radius)
	}
}

func TestFilletParallelAborts(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 0)))
	st.Add(entity.NewLine(geom.Pt(0, 10), geom.Pt(100, 10)))

	f := begin(t, command.Fillet, st, sel)
	f.value("5")
	f.click(50, 0)
	res := f.click(50, 10)
	if res.Status != command.StatusAbort {
		t.Errorf("parallel fillet status = %v, want abort", res.Status)
	}
	if st.Len() != 2 {
		t.Errorf("store has %d entities after aborted fillet, want 2 unchanged", st.Len())
	}
}

func TestChamfer(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 0)))
	st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(0, 100)))

	f := begin(t, command.Chamfer, st, sel)
	f.value("10 20")
	f.click(60, 0)
	f.click(0, 60)

	var cut *entity.Entity
	for _, e := range st.All() {
		if e.Kind == entity.KindLine && !e.Start.NearlyEqual(e.End) {
			if (e.Start.DistanceTo(geom.Pt(10, 0)) < 1e-9 && e.End.DistanceTo(geom.Pt(0, 20)) < 1e-9) ||
				(e.Start.DistanceTo(geom.Pt(0, 20)) < 1e-9 && e.End.DistanceTo(geom.Pt(10, 0)) < 1e-9) {
				c := e
				cut = &c
			}
		}
	}
	if cut == nil {
		t.Error("chamfer cut segment (10,0)-(0,20) not found")
	}
}

func TestArrayRectangular(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewCircle(geom.Pt(0, 0), 1))
	sel.Toggle(id)

	f := begin(t, command.Array, st, sel)
	f.value("R")
	f.value("2 3")
	f.value("10 20")

	// 2x3 grid minus the original cell = 5 copies.
	if st.Len() != 6 {
		t.Fatalf("store has %d entities, want 6", st.Len())
	}
	seen := make(map[geom.Point]bool)
	for _, e := range st.All() {
		seen[e.Center] = true
	}
	for _, want := range []geom.Point{
		geom.Pt(0, 0), geom.Pt(20, 0), geom.Pt(40, 0),
		geom.Pt(0, 10), geom.Pt(20, 10), geom.Pt(40, 10),
	} {
		if !seen[want] {
			t.Errorf("no copy at %v", want)
		}
	}
}

func TestArrayPolarFullCircle(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewPoint(geom.Pt(10, 0)))
	sel.Toggle(id)

	f := begin(t, command.Array, st, sel)
	f.value("P")
	f.click(0, 0)
	f.value("4")
	f.value("") // full circle

	if st.Len() != 4 {
		t.Fatalf("store has %d entities, want 4", st.Len())
	}
	found := 0
	for _, e := range st.All() {
		for _, want := range []geom.Point{geom.Pt(10, 0), geom.Pt(0, 10), geom.Pt(-10, 0), geom.Pt(0, -10)} {
			if e.Position.DistanceTo(want) < 1e-9 {
				found++
			}
		}
	}
	if found != 4 {
		t.Errorf("found %d of 4 expected polar positions", found)
	}
}

func TestStretchPartialLine(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 0)))

	f := begin(t, command.Stretch, st, sel)
	f.click(80, -10) // crossing window around the right end only
	f.click(120, 10)
	f.click(100, 0) // base
	f.click(100, 50)

	e, _ := st.Get(id)
	if e.Start != geom.Pt(0, 0) {
		t.Errorf("left end moved to %v, want unchanged (0,0)", e.Start)
	}
	if e.End.DistanceTo(geom.Pt(100, 50)) > 1e-9 {
		t.Errorf("right end = %v, want (100,50)", e.End)
	}
}

func TestStretchEnclosedMovesWhole(t *testing.T) {
	st, sel := seeded(t)
	id, _ := st.Add(entity.NewLine(geom.Pt(10, 10), geom.Pt(20, 20)))

	f := begin(t, command.Stretch, st, sel)
	f.click(0, 0)
	f.click(50, 50)
	f.click(0, 0)
	f.click(5, 0)

	e, _ := st.Get(id)
	if e.Start != geom.Pt(15, 10) || e.End != geom.Pt(25, 20) {
		t.Errorf("enclosed line = %v -> %v, want translated whole", e.Start, e.End)
	}
}

func TestJoinChain(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 0)))
	st.Add(entity.NewLine(geom.Pt(10, 0), geom.Pt(10, 10)))
	st.Add(entity.NewLine(geom.Pt(10, 10), geom.Pt(0, 10)))

	f := begin(t, command.Join, st, sel)
	f.click(5, 0)
	f.click(10, 5)
	f.click(5, 10)
	res := f.value("")
	if res.Status != command.StatusDone {
		t.Fatalf("join status = %v, want done", res.Status)
	}

	all := st.All()
	if len(all) != 1 {
		t.Fatalf("store has %d entities after join, want 1", len(all))
	}
	if all[0].Kind != entity.KindPolyline || len(all[0].Vertices) != 4 {
		t.Errorf("joined = %s with %d vertices, want 4-vertex LWPOLYLINE", all[0].Kind, len(all[0].Vertices))
	}
}

func TestExplode(t *testing.T) {
	st, sel := seeded(t)
	st.Add(entity.NewPolyline([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}, true))

	f := begin(t, command.Explode, st, sel)
	f.click(5, 0)

	all := st.All()
	if len(all) != 3 {
		t.Fatalf("closed triangle exploded into %d entities, want 3 lines", len(all))
	}
	for _, e := range all {
		if e.Kind != entity.KindLine {
			t.Errorf("exploded piece is %s, want LINE", e.Kind)
		}
	}
}

func TestEraseRespectsLockedLayer(t *testing.T) {
	st, sel := seeded(t)
	st.AddLayer(entity.Layer{Name: "walls"})
	e := entity.NewPoint(geom.Pt(0, 0))
	e.Layer = "walls"
	lockedID, _ := st.Add(e)
	freeID, _ := st.Add(entity.NewPoint(geom.Pt(50, 50)))
	sel.Toggle(lockedID)
	sel.Toggle(freeID)
	st.UpdateLayer("walls", func(l *entity.Layer) { l.Locked = true })

	f := begin(t, command.Erase, st, sel)
	_ = f
	if _, ok := st.Get(lockedID); !ok {
		t.Error("locked-layer entity deleted")
	}
	if _, ok := st.Get(freeID); ok {
		t.Error("unlocked entity survived erase")
	}
}

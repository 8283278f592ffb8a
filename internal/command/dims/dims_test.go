package dims

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
	h   command.Handler
	ctx *command.Context
}

func start(t *testing.T, name command.Name, st *store.Store) *fixture {
	t.Helper()
	if st == nil {
		st = store.New(nil)
	}
	reg := command.NewRegistry()
	Register(reg)
	h, err := reg.New(name)
	if err != nil {
		t.Fatalf("registry.New(%s): %v", name, err)
	}
	sel := selection.New(st, nil)
	ctx := command.NewContext(name, st, sel, history.New(0), nil, nil, command.DefaultSettings())
	h.Start(ctx)
	return &fixture{st: st, h: h, ctx: ctx}
}

func (f *fixture) click(x, y float64) command.Result {
	return f.h.OnPoint(f.ctx, geom.Pt(x, y))
}

func dimsOf(st *store.Store) []entity.Dimension {
	var out []entity.Dimension
	for _, e := range st.All() {
		if e.Kind == entity.KindDim && e.Dim != nil {
			out = append(out, *e.Dim)
		}
	}
	return out
}

func TestLinearHorizontal(t *testing.T) {
	f := start(t, command.DimLinear, nil)
	f.click(0, 0)
	f.click(30, 10)
	f.click(15, 50) // displaced vertically: horizontal dimension

	ds := dimsOf(f.st)
	if len(ds) != 1 {
		t.Fatalf("created %d dimensions, want 1", len(ds))
	}
	d := ds[0]
	if d.Kind != entity.DimLinear {
		t.Errorf("kind = %s, want linear", d.Kind)
	}
	if math.Abs(d.Measurement-30) > 1e-9 {
		t.Errorf("measurement = %v, want 30 (X extent)", d.Measurement)
	}
	if d.Line1.Y != 50 || d.Line2.Y != 50 {
		t.Errorf("dimension line at y=%v/%v, want 50", d.Line1.Y, d.Line2.Y)
	}
	if f.ctx.Step != 1 {
		t.Errorf("step = %d after placement, want 1 (looping)", f.ctx.Step)
	}
}

func TestAlignedMeasuresTrueDistance(t *testing.T) {
	f := start(t, command.DimAligned, nil)
	f.click(0, 0)
	f.click(30, 40)
	f.click(0, 20)

	ds := dimsOf(f.st)
	if len(ds) != 1 {
		t.Fatalf("created %d dimensions, want 1", len(ds))
	}
	if math.Abs(ds[0].Measurement-50) > 1e-9 {
		t.Errorf("measurement = %v, want 50", ds[0].Measurement)
	}
}

func TestLinearDegenerateResets(t *testing.T) {
	f := start(t, command.DimLinear, nil)
	f.click(5, 5)
	f.click(5, 5)
	f.click(0, 50)

	if len(dimsOf(f.st)) != 0 {
		t.Error("degenerate dimension was created")
	}
	if f.ctx.Step != 1 {
		t.Errorf("step = %d, want reset to 1", f.ctx.Step)
	}
}

func TestAngularRightAngle(t *testing.T) {
	f := start(t, command.DimAngular, nil)
	f.click(0, 0)  // vertex
	f.click(10, 0) // first direction
	f.click(0, 10) // second direction
	f.click(5, 5)  // arc location

	ds := dimsOf(f.st)
	if len(ds) != 1 {
		t.Fatalf("created %d dimensions, want 1", len(ds))
	}
	if math.Abs(ds[0].Measurement-90) > 1e-9 {
		t.Errorf("measurement = %v degrees, want 90", ds[0].Measurement)
	}
}

func TestRadiusAndDiameter(t *testing.T) {
	st := store.New(nil)
	st.Add(entity.NewCircle(geom.Pt(0, 0), 10))

	f := start(t, command.DimRadius, st)
	f.click(10, 0) // pick the circle
	f.click(25, 0) // place
	ds := dimsOf(st)
	if len(ds) != 1 || ds[0].Measurement != 10 {
		t.Fatalf("radius dims = %+v, want one with measurement 10", ds)
	}
	if ds[0].Kind != entity.DimRadius {
		t.Errorf("kind = %s, want radius", ds[0].Kind)
	}

	f = start(t, command.DimDiameter, st)
	f.click(0, 10)
	f.click(0, 30)
	ds = dimsOf(st)
	if len(ds) != 2 || ds[1].Measurement != 20 {
		t.Fatalf("diameter measurement = %v, want 20", ds[1].Measurement)
	}
}

func TestContinueSeedsFromLatest(t *testing.T) {
	st := store.New(nil)
	f := start(t, command.DimLinear, st)
	f.click(0, 0)
	f.click(10, 0)
	f.click(5, 20)

	f = start(t, command.DimContinue, st)
	f.click(25, 0)
	f.click(40, 0)

	ds := dimsOf(st)
	if len(ds) != 3 {
		t.Fatalf("created %d dimensions, want 3", len(ds))
	}
	if ds[1].P1 != geom.Pt(10, 0) || math.Abs(ds[1].Measurement-15) > 1e-9 {
		t.Errorf("first continued dim from %v measuring %v, want from (10,0) measuring 15", ds[1].P1, ds[1].Measurement)
	}
	// The base runs forward with each placement.
	if ds[2].P1 != geom.Pt(25, 0) || math.Abs(ds[2].Measurement-15) > 1e-9 {
		t.Errorf("second continued dim from %v measuring %v, want from (25,0) measuring 15", ds[2].P1, ds[2].Measurement)
	}
}

func TestContinueKeepsSeedOrientation(t *testing.T) {
	st := store.New(nil)
	f := start(t, command.DimLinear, st)
	f.click(0, 0)
	f.click(0, 10)
	f.click(20, 5) // displaced horizontally: vertical dimension

	// The chain marches up the measured axis, far past the seed's
	// clicked location; every link must stay a vertical dimension with
	// the dimension line at the seed's x offset.
	f = start(t, command.DimContinue, st)
	f.click(0, 25)
	f.click(0, 40)
	f.click(0, 55)

	ds := dimsOf(st)
	if len(ds) != 4 {
		t.Fatalf("created %d dimensions, want 4", len(ds))
	}
	for i, d := range ds[1:] {
		if math.Abs(d.Rotation-math.Pi/2) > 1e-9 {
			t.Errorf("link %d rotation = %v, want vertical", i+1, d.Rotation)
		}
		if math.Abs(d.Measurement-15) > 1e-9 {
			t.Errorf("link %d measures %v, want 15", i+1, d.Measurement)
		}
		if math.Abs(d.Line1.X-20) > 1e-9 {
			t.Errorf("link %d dimension line at x=%v, want 20", i+1, d.Line1.X)
		}
	}
}

func TestBaselineKeepsBase(t *testing.T) {
	st := store.New(nil)
	f := start(t, command.DimLinear, st)
	f.click(0, 0)
	f.click(10, 0)
	f.click(5, 20)

	f = start(t, command.DimBaseline, st)
	f.click(25, 0)
	f.click(40, 0)

	ds := dimsOf(st)
	if len(ds) != 3 {
		t.Fatalf("created %d dimensions, want 3", len(ds))
	}
	for i, d := range ds[1:] {
		if d.P1 != geom.Pt(0, 0) {
			t.Errorf("baseline dim %d base = %v, want (0,0)", i, d.P1)
		}
	}
	if math.Abs(ds[1].Measurement-25) > 1e-9 || math.Abs(ds[2].Measurement-40) > 1e-9 {
		t.Errorf("measurements = %v, %v, want 25 and 40", ds[1].Measurement, ds[2].Measurement)
	}
	if ds[2].Line1.Y <= ds[1].Line1.Y {
		t.Errorf("baseline rows at y=%v then %v, want stacked outward", ds[1].Line1.Y, ds[2].Line1.Y)
	}
}

func TestContinueFreshWithoutSeed(t *testing.T) {
	f := start(t, command.DimContinue, nil)
	if f.ctx.Step != 1 {
		t.Fatalf("step = %d without a seed, want 1 (fresh start)", f.ctx.Step)
	}
	f.click(0, 0)
	f.click(10, 0)
	f.click(5, 20)
	f.click(30, 0) // chained

	ds := dimsOf(f.st)
	if len(ds) != 2 {
		t.Fatalf("created %d dimensions, want 2", len(ds))
	}
	if ds[1].P1 != geom.Pt(10, 0) {
		t.Errorf("chained base = %v, want (10,0)", ds[1].P1)
	}
}

package draw

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
	ctx *command.Context
	h   command.Handler
}

func start(t *testing.T, name command.Name) *fixture {
	t.Helper()
	reg := command.NewRegistry()
	Register(reg)
	h, err := reg.New(name)
	if err != nil {
		t.Fatalf("registry.New(%s): %v", name, err)
	}
	st := store.New(nil)
	sel := selection.New(st, nil)
	ctx := command.NewContext(name, st, sel, history.New(0), nil, nil, command.DefaultSettings())
	h.Start(ctx)
	return &fixture{st: st, ctx: ctx, h: h}
}

func (f *fixture) click(x, y float64) command.Result {
	return f.h.OnPoint(f.ctx, geom.Pt(x, y))
}

func (f *fixture) value(text string) command.Result {
	return f.h.OnValue(f.ctx, text)
}

func onlyEntity(t *testing.T, st *store.Store) entity.Entity {
	t.Helper()
	all := st.All()
	if len(all) != 1 {
		t.Fatalf("store has %d entities, want 1", len(all))
	}
	return all[0]
}

func TestLineTwoClicks(t *testing.T) {
	f := start(t, command.Line)
	f.click(0, 0)
	f.click(10, 0)

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindLine {
		t.Fatalf("kind = %s, want LINE", e.Kind)
	}
	if e.Start != geom.Pt(0, 0) || e.End != geom.Pt(10, 0) {
		t.Errorf("segment = %v -> %v, want (0,0) -> (10,0)", e.Start, e.End)
	}
	if f.ctx.Step != 2 {
		t.Errorf("step = %d after second click, want 2", f.ctx.Step)
	}
	if len(f.ctx.Temp) != 1 || f.ctx.Temp[0] != geom.Pt(10, 0) {
		t.Errorf("temp = %v, want [(10,0)]", f.ctx.Temp)
	}
}

func TestLineChainContinues(t *testing.T) {
	f := start(t, command.Line)
	f.click(0, 0)
	f.click(10, 0)
	f.click(10, 10)
	if f.st.Len() != 2 {
		t.Errorf("store has %d entities after 3 clicks, want 2 segments", f.st.Len())
	}
}

func TestLineCloseLoop(t *testing.T) {
	f := start(t, command.Line)
	f.click(0, 0)
	f.click(100, 0)
	f.click(100, 100)
	f.click(1, 1) // within close threshold of the first point

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindPolyline || !e.Closed {
		t.Fatalf("close produced %s closed=%v, want closed LWPOLYLINE", e.Kind, e.Closed)
	}
	if len(e.Vertices) != 3 {
		t.Errorf("closed polyline has %d vertices, want 3", len(e.Vertices))
	}
	if f.ctx.Step != 1 {
		t.Errorf("step = %d after close, want 1", f.ctx.Step)
	}
}

func TestLineCancelSalvage(t *testing.T) {
	f := start(t, command.Line)
	f.click(0, 0)
	f.click(50, 0)
	f.click(50, 50)
	f.h.Cancel(f.ctx)

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindPolyline || e.Closed {
		t.Fatalf("salvage produced %s closed=%v, want open LWPOLYLINE", e.Kind, e.Closed)
	}
	if len(e.Vertices) != 3 {
		t.Errorf("salvaged polyline has %d vertices, want 3", len(e.Vertices))
	}
}

func TestLineCancelSinglePointCreatesNothing(t *testing.T) {
	f := start(t, command.Line)
	f.click(0, 0)
	f.h.Cancel(f.ctx)
	if f.st.Len() != 0 {
		t.Errorf("store has %d entities after cancel with one point, want 0", f.st.Len())
	}
}

func TestPolylineFinishAndClose(t *testing.T) {
	f := start(t, command.Polyline)
	f.click(0, 0)
	f.click(10, 0)
	f.click(10, 10)
	f.value("")

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindPolyline || e.Closed || len(e.Vertices) != 3 {
		t.Errorf("got %s closed=%v with %d vertices, want open 3-vertex LWPOLYLINE", e.Kind, e.Closed, len(e.Vertices))
	}

	f.click(50, 50)
	f.click(60, 50)
	f.click(60, 60)
	f.value("C")
	all := f.st.All()
	if len(all) != 2 || !all[1].Closed {
		t.Errorf("close: got %d entities, second closed=%v", len(all), all[len(all)-1].Closed)
	}
}

func TestCircleScenario(t *testing.T) {
	f := start(t, command.Circle)
	f.click(0, 0)
	f.click(5, 0)

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindCircle {
		t.Fatalf("kind = %s, want CIRCLE", e.Kind)
	}
	if e.Center != geom.Pt(0, 0) || math.Abs(e.Radius-5) > 1e-9 {
		t.Errorf("circle center=%v r=%v, want (0,0) r=5", e.Center, e.Radius)
	}
	if f.ctx.Step != 1 {
		t.Errorf("step = %d after circle, want 1 (loops)", f.ctx.Step)
	}
}

func TestCircleTypedRadius(t *testing.T) {
	f := start(t, command.Circle)
	f.click(3, 4)
	f.value("7.5")
	e := onlyEntity(t, f.st)
	if math.Abs(e.Radius-7.5) > 1e-9 {
		t.Errorf("radius = %v, want 7.5", e.Radius)
	}
}

func TestArcThreePoints(t *testing.T) {
	f := start(t, command.Arc)
	f.click(10, 0)
	f.click(0, 10)
	f.click(-10, 0)

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindArc {
		t.Fatalf("kind = %s, want ARC", e.Kind)
	}
	if e.Center.DistanceTo(geom.Pt(0, 0)) > 1e-9 || math.Abs(e.Radius-10) > 1e-9 {
		t.Errorf("arc center=%v r=%v, want (0,0) r=10", e.Center, e.Radius)
	}
}

func TestArcCollinearResets(t *testing.T) {
	f := start(t, command.Arc)
	f.click(0, 0)
	f.click(5, 0)
	f.click(10, 0)
	if f.st.Len() != 0 {
		t.Errorf("collinear arc created %d entities, want 0", f.st.Len())
	}
	if f.ctx.Step != 1 {
		t.Errorf("step = %d after degenerate arc, want 1", f.ctx.Step)
	}
}

func TestDonutOuterSmallerRejected(t *testing.T) {
	f := start(t, command.Donut)
	f.click(0, 0)
	f.click(10, 0) // inner radius 10
	f.click(5, 0)  // outer radius 5 < inner

	if f.st.Len() != 0 {
		t.Errorf("inverted donut created %d entities, want 0", f.st.Len())
	}
	if f.ctx.Step != 1 {
		t.Errorf("step = %d after rejected donut, want 1 (reset)", f.ctx.Step)
	}
}

func TestDonutValid(t *testing.T) {
	f := start(t, command.Donut)
	f.click(0, 0)
	f.click(5, 0)
	f.click(10, 0)
	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindDonut || e.InnerRadius != 5 || e.OuterRadius != 10 {
		t.Errorf("donut = %s inner=%v outer=%v, want DONUT 5 10", e.Kind, e.InnerRadius, e.OuterRadius)
	}
}

func TestPolygon(t *testing.T) {
	f := start(t, command.Polygon)
	f.value("6")
	f.click(0, 0)
	f.click(10, 0)

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindPolyline || !e.Closed || len(e.Vertices) != 6 {
		t.Fatalf("polygon = %s closed=%v %d vertices, want closed 6-gon", e.Kind, e.Closed, len(e.Vertices))
	}
	for i, v := range e.Vertices {
		if math.Abs(v.Sub(geom.Pt(0, 0)).Length()-10) > 1e-9 {
			t.Errorf("vertex %d at distance %v, want 10", i, v.Length())
		}
	}
}

func TestPolygonRejectsTooFewSides(t *testing.T) {
	f := start(t, command.Polygon)
	res := f.value("2")
	if res.Status != command.StatusNoOp || f.ctx.Step != 1 {
		t.Errorf("2-sided polygon accepted: status=%v step=%d", res.Status, f.ctx.Step)
	}
}

func TestRectangle(t *testing.T) {
	f := start(t, command.Rectangle)
	f.click(0, 0)
	f.click(20, 10)

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindPolyline || !e.Closed || len(e.Vertices) != 4 {
		t.Fatalf("rectangle = %s closed=%v %d vertices", e.Kind, e.Closed, len(e.Vertices))
	}
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(20, 0), geom.Pt(20, 10), geom.Pt(0, 10)}
	for i, v := range e.Vertices {
		if v != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestRectangleDegenerate(t *testing.T) {
	f := start(t, command.Rectangle)
	f.click(0, 0)
	f.click(10, 0) // zero height
	if f.st.Len() != 0 {
		t.Errorf("degenerate rectangle created %d entities, want 0", f.st.Len())
	}
}

func TestSplineFinishAndSalvageDegree(t *testing.T) {
	f := start(t, command.Spline)
	f.click(0, 0)
	f.click(10, 5)
	f.value("")
	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindSpline || e.Degree != 1 {
		t.Errorf("2-point spline degree = %d, want 1", e.Degree)
	}

	f2 := start(t, command.Spline)
	for i := 0; i < 5; i++ {
		f2.click(float64(i*10), float64(i%2*10))
	}
	f2.h.Cancel(f2.ctx)
	e2 := onlyEntity(t, f2.st)
	if e2.Degree != 3 || len(e2.Vertices) != 5 {
		t.Errorf("salvaged spline degree=%d vertices=%d, want 3 and 5", e2.Degree, len(e2.Vertices))
	}
}

func TestTextHeightThenContent(t *testing.T) {
	f := start(t, command.Text)
	f.click(5, 5)
	f.value("4")
	f.value("hello")

	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindText || e.Content != "hello" || e.Height != 4 {
		t.Errorf("text = %s %q h=%v, want TEXT hello 4", e.Kind, e.Content, e.Height)
	}
}

func TestMText(t *testing.T) {
	f := start(t, command.MText)
	f.click(0, 0)
	f.click(30, 0)
	f.value("multi line")
	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindMText || e.Width != 30 {
		t.Errorf("mtext width = %v, want 30", e.Width)
	}
}

func TestTable(t *testing.T) {
	f := start(t, command.Table)
	f.click(0, 0)
	f.value("3 4")
	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindTable || e.Rows != 3 || e.Cols != 4 {
		t.Errorf("table = %s %dx%d, want TABLE 3x4", e.Kind, e.Rows, e.Cols)
	}
}

func TestHatch(t *testing.T) {
	f := start(t, command.Hatch)
	f.click(0, 0)
	f.click(10, 0)
	f.click(10, 10)
	f.value("ANSI32")
	f.value("")
	e := onlyEntity(t, f.st)
	if e.Kind != entity.KindHatch || e.Pattern != "ANSI32" || len(e.Vertices) != 3 {
		t.Errorf("hatch = %s pattern=%q %d vertices", e.Kind, e.Pattern, len(e.Vertices))
	}
}

func TestRayAndXLine(t *testing.T) {
	f := start(t, command.Ray)
	f.click(0, 0)
	f.click(10, 10)
	f.click(10, -10)
	if f.st.Len() != 2 {
		t.Errorf("ray fan created %d entities, want 2", f.st.Len())
	}

	f2 := start(t, command.XLine)
	f2.click(0, 0)
	f2.click(0, 10)
	e := onlyEntity(t, f2.st)
	if e.Kind != entity.KindXLine {
		t.Errorf("kind = %s, want XLINE", e.Kind)
	}
}

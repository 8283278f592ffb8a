package geom

import (
	"math"
	"testing"
)

func TestTrimLineMiddle(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	cuts := []Point{Pt(3, 0), Pt(7, 0)}
	kept, changed := TrimLine(a, b, Pt(5, 0), cuts)
	if !changed || len(kept) != 2 {
		t.Fatalf("changed=%v kept=%d, want 2 segments", changed, len(kept))
	}
	if !pointsAlmostEqual(kept[0][0], Pt(0, 0)) || !pointsAlmostEqual(kept[0][1], Pt(3, 0)) {
		t.Errorf("left survivor = %v", kept[0])
	}
	if !pointsAlmostEqual(kept[1][0], Pt(7, 0)) || !pointsAlmostEqual(kept[1][1], Pt(10, 0)) {
		t.Errorf("right survivor = %v", kept[1])
	}
}

func TestTrimLineEnd(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	kept, changed := TrimLine(a, b, Pt(9, 0), []Point{Pt(6, 0)})
	if !changed || len(kept) != 1 {
		t.Fatalf("changed=%v kept=%d, want 1 segment", changed, len(kept))
	}
	if !pointsAlmostEqual(kept[0][0], Pt(0, 0)) || !pointsAlmostEqual(kept[0][1], Pt(6, 0)) {
		t.Errorf("survivor = %v", kept[0])
	}
}

func TestTrimLineNoCut(t *testing.T) {
	if _, changed := TrimLine(Pt(0, 0), Pt(10, 0), Pt(5, 0), nil); changed {
		t.Error("no cuts should leave the line unchanged")
	}
	// Cuts at the endpoints split nothing off.
	if _, changed := TrimLine(Pt(0, 0), Pt(10, 0), Pt(5, 0), []Point{Pt(0, 0), Pt(10, 0)}); changed {
		t.Error("endpoint cuts should leave the line unchanged")
	}
}

func TestTrimCircle(t *testing.T) {
	center := Pt(0, 0)
	cuts := []Point{Pt(5, 0), Pt(0, 5)}
	// Click in the first quadrant removes that sector.
	span, ok := TrimCircle(center, Pt(4, 4), cuts)
	if !ok {
		t.Fatal("expected a trim")
	}
	if !almostEqual(span.Start, math.Pi/2) || !almostEqual(span.End, 0) {
		t.Errorf("span = %+v, want start π/2 end 0", span)
	}
	if _, ok := TrimCircle(center, Pt(4, 4), cuts[:1]); ok {
		t.Error("a single cut cannot trim a circle")
	}
}

func TestTrimArcMiddle(t *testing.T) {
	center := Pt(0, 0)
	// Half arc 0..π, cut at π/2, click just past the cut.
	spans, ok := TrimArc(center, 0, math.Pi, Pt(-3, 3), []Point{Pt(0, 5)})
	if !ok || len(spans) != 1 {
		t.Fatalf("ok=%v spans=%v", ok, spans)
	}
	if !almostEqual(spans[0].Start, 0) || !almostEqual(spans[0].End, math.Pi/2) {
		t.Errorf("span = %+v, want 0..π/2", spans[0])
	}
}

func TestExtendLine(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	hits := []Point{Pt(15, 0), Pt(20, 0)}
	// Click near b extends to the nearest boundary past b.
	na, nb, ok := ExtendLine(a, b, Pt(9, 0), hits)
	if !ok || !pointsAlmostEqual(na, a) || !pointsAlmostEqual(nb, Pt(15, 0)) {
		t.Errorf("got %v-%v ok=%v, want (0,0)-(15,0)", na, nb, ok)
	}
	// Click near a with a boundary behind it.
	na, nb, ok = ExtendLine(a, b, Pt(1, 0), []Point{Pt(-5, 0)})
	if !ok || !pointsAlmostEqual(na, Pt(-5, 0)) || !pointsAlmostEqual(nb, b) {
		t.Errorf("got %v-%v ok=%v, want (-5,0)-(10,0)", na, nb, ok)
	}
	// No boundary beyond the clicked end.
	if _, _, ok := ExtendLine(a, b, Pt(9, 0), []Point{Pt(5, 0)}); ok {
		t.Error("interior hit should not extend")
	}
}

func TestSolveFilletRightAngle(t *testing.T) {
	// Two perpendicular lines meeting at the origin; radius 2.
	const r = 2.0
	sol, ok := SolveFillet(
		Pt(0, 0), Pt(10, 0), Pt(8, 0),
		Pt(0, 0), Pt(0, 10), Pt(0, 8),
		r,
	)
	if !ok {
		t.Fatal("expected a solution")
	}
	if !almostEqual(sol.Radius, r) {
		t.Errorf("radius = %v, want %v", sol.Radius, r)
	}
	// Tangent distance r/tan(π/4) = r from the intersection.
	want := r / math.Tan(math.Pi/4)
	if d := sol.Line1[0].DistanceTo(Pt(0, 0)); !almostEqual(d, want) {
		t.Errorf("line1 trim distance = %v, want %v", d, want)
	}
	if d := sol.Line2[0].DistanceTo(Pt(0, 0)); !almostEqual(d, want) {
		t.Errorf("line2 trim distance = %v, want %v", d, want)
	}
	if !pointsAlmostEqual(sol.Center, Pt(2, 2)) {
		t.Errorf("arc center = %v, want (2,2)", sol.Center)
	}
	// Arc endpoints sit on both lines' tangent points.
	if d := sol.Center.DistanceTo(sol.Line1[0]); !almostEqual(d, r) {
		t.Errorf("tangent point off the arc: %v", d)
	}
}

func TestSolveFilletParallel(t *testing.T) {
	if _, ok := SolveFillet(
		Pt(0, 0), Pt(10, 0), Pt(5, 0),
		Pt(0, 5), Pt(10, 5), Pt(5, 5),
		1,
	); ok {
		t.Error("parallel lines must not fillet")
	}
}

func TestSolveChamfer(t *testing.T) {
	sol, ok := SolveChamfer(
		Pt(0, 0), Pt(10, 0), Pt(8, 0),
		Pt(0, 0), Pt(0, 10), Pt(0, 8),
		3, 4,
	)
	if !ok {
		t.Fatal("expected a solution")
	}
	if !pointsAlmostEqual(sol.Cut1, Pt(3, 0)) || !pointsAlmostEqual(sol.Cut2, Pt(0, 4)) {
		t.Errorf("cuts = %v, %v", sol.Cut1, sol.Cut2)
	}
	if !pointsAlmostEqual(sol.Line1[1], Pt(10, 0)) || !pointsAlmostEqual(sol.Line2[1], Pt(0, 10)) {
		t.Errorf("far ends = %v, %v", sol.Line1[1], sol.Line2[1])
	}
}

func TestSolveChamferTooDeep(t *testing.T) {
	if _, ok := SolveChamfer(
		Pt(0, 0), Pt(10, 0), Pt(8, 0),
		Pt(0, 0), Pt(0, 10), Pt(0, 8),
		11, 1,
	); ok {
		t.Error("chamfer distance beyond the line end must fail")
	}
}

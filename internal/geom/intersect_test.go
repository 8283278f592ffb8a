package geom

import (
	"math"
	"testing"
)

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(Pt(0, 0), Pt(10, 0), Pt(5, -5), Pt(5, 5))
	if !ok || !pointsAlmostEqual(p, Pt(5, 0)) {
		t.Errorf("got %v ok=%v, want (5,0)", p, ok)
	}
	// Lines intersect even when the segments do not reach.
	p, ok = LineIntersection(Pt(0, 0), Pt(1, 0), Pt(5, 1), Pt(5, 2))
	if !ok || !pointsAlmostEqual(p, Pt(5, 0)) {
		t.Errorf("extended: got %v ok=%v", p, ok)
	}
	if _, ok := LineIntersection(Pt(0, 0), Pt(1, 0), Pt(0, 1), Pt(1, 1)); ok {
		t.Error("parallel lines should not intersect")
	}
}

func TestSegmentIntersection(t *testing.T) {
	if p, ok := SegmentIntersection(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0)); !ok || !pointsAlmostEqual(p, Pt(5, 5)) {
		t.Errorf("crossing: got %v ok=%v", p, ok)
	}
	if _, ok := SegmentIntersection(Pt(0, 0), Pt(1, 1), Pt(5, 0), Pt(5, 10)); ok {
		t.Error("non-reaching segments should not intersect")
	}
	if _, ok := SegmentIntersection(Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1)); ok {
		t.Error("parallel segments should not intersect")
	}
}

func TestLineCircleIntersections(t *testing.T) {
	pts := LineCircleIntersections(Pt(-10, 0), Pt(10, 0), Pt(0, 0), 5)
	if len(pts) != 2 {
		t.Fatalf("secant: got %d points, want 2", len(pts))
	}
	// Tangent line touches once.
	pts = LineCircleIntersections(Pt(-10, 5), Pt(10, 5), Pt(0, 0), 5)
	if len(pts) != 1 {
		t.Fatalf("tangent: got %d points, want 1", len(pts))
	}
	if !pointsAlmostEqual(pts[0], Pt(0, 5)) {
		t.Errorf("tangent point = %v", pts[0])
	}
	if pts := LineCircleIntersections(Pt(-10, 9), Pt(10, 9), Pt(0, 0), 5); len(pts) != 0 {
		t.Errorf("miss: got %d points, want 0", len(pts))
	}
}

func TestSegmentArcIntersections(t *testing.T) {
	// Vertical chord crosses circle at (0,5) and (0,-5); the upper-half
	// arc keeps only the top crossing.
	pts := SegmentArcIntersections(Pt(0, -10), Pt(0, 10), Pt(0, 0), 5, 0, math.Pi)
	if len(pts) != 1 || !pointsAlmostEqual(pts[0], Pt(0, 5)) {
		t.Fatalf("got %v, want [(0,5)]", pts)
	}
}

func TestCircumcenter(t *testing.T) {
	c, ok := Circumcenter(Pt(5, 0), Pt(0, 5), Pt(-5, 0))
	if !ok || !pointsAlmostEqual(c, Pt(0, 0)) {
		t.Errorf("got %v ok=%v, want origin", c, ok)
	}
	if _, ok := Circumcenter(Pt(0, 0), Pt(1, 1), Pt(2, 2)); ok {
		t.Error("collinear points should be degenerate")
	}
}

func TestSegmentParam(t *testing.T) {
	tVal, ok := SegmentParam(Pt(5, 3), Pt(0, 0), Pt(10, 0))
	if !ok || !almostEqual(tVal, 0.5) {
		t.Errorf("got %v ok=%v, want 0.5", tVal, ok)
	}
	if _, ok := SegmentParam(Pt(1, 1), Pt(2, 2), Pt(2, 2)); ok {
		t.Error("degenerate segment should report !ok")
	}
}

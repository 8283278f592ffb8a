package geom

import (
	"math"
	"testing"
)

func TestDistanceToSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above interior", Pt(5, 3), 3},
		{"beyond start", Pt(-4, 0), 4},
		{"beyond end", Pt(13, 4), 5},
		{"on segment", Pt(7, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToSegment(tt.p, a, b); !almostEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceToSegmentDegenerate(t *testing.T) {
	if got := DistanceToSegment(Pt(3, 4), Pt(0, 0), Pt(0, 0)); !almostEqual(got, 5) {
		t.Errorf("got %v, want 5", got)
	}
}

func TestDistanceToCircle(t *testing.T) {
	c := Pt(0, 0)
	if got := DistanceToCircle(Pt(7, 0), c, 5); !almostEqual(got, 2) {
		t.Errorf("outside: got %v, want 2", got)
	}
	if got := DistanceToCircle(Pt(2, 0), c, 5); !almostEqual(got, 3) {
		t.Errorf("inside: got %v, want 3", got)
	}
}

func TestDistanceToArc(t *testing.T) {
	c := Pt(0, 0)
	// Upper half arc from 0 to π.
	if got := DistanceToArc(Pt(0, 7), c, 5, 0, math.Pi); !almostEqual(got, 2) {
		t.Errorf("on sweep: got %v, want 2", got)
	}
	// Below the arc: nearest feature is an endpoint.
	want := Pt(0, -4).DistanceTo(Pt(5, 0))
	if got := DistanceToArc(Pt(0, -4), c, 5, 0, math.Pi); !almostEqual(got, want) {
		t.Errorf("off sweep: got %v, want %v", got, want)
	}
}

func TestDistanceToPolyline(t *testing.T) {
	verts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}
	if got := DistanceToPolyline(Pt(5, 2), verts, false); !almostEqual(got, 2) {
		t.Errorf("open: got %v, want 2", got)
	}
	// Closing segment from (10,10) back to (0,0) passes near (5,5).
	open := DistanceToPolyline(Pt(4, 5), verts, false)
	closed := DistanceToPolyline(Pt(4, 5), verts, true)
	if closed >= open {
		t.Errorf("closed distance %v should beat open %v", closed, open)
	}
	if !math.IsInf(DistanceToPolyline(Pt(0, 0), nil, false), 1) {
		t.Error("empty polyline should be infinitely far")
	}
}

func TestDistanceToEllipseOnAxes(t *testing.T) {
	c := Pt(0, 0)
	if got := DistanceToEllipse(Pt(12, 0), c, 10, 5, 0); !almostEqual(got, 2) {
		t.Errorf("major axis: got %v, want 2", got)
	}
	if got := DistanceToEllipse(Pt(0, 8), c, 10, 5, 0); !almostEqual(got, 3) {
		t.Errorf("minor axis: got %v, want 3", got)
	}
}

func TestDistanceToRay(t *testing.T) {
	origin, through := Pt(0, 0), Pt(1, 0)
	if got := DistanceToRay(Pt(5, 3), origin, through); !almostEqual(got, 3) {
		t.Errorf("forward: got %v, want 3", got)
	}
	if got := DistanceToRay(Pt(-4, 3), origin, through); !almostEqual(got, 5) {
		t.Errorf("behind origin: got %v, want 5", got)
	}
}

func TestBoxClassification(t *testing.T) {
	box := BoxFromCorners(Pt(10, 10), Pt(0, 0)) // reversed corners normalize
	if !box.ContainsPoint(Pt(5, 5)) || box.ContainsPoint(Pt(11, 5)) {
		t.Error("ContainsPoint misclassified")
	}
	inner := BoxFromCorners(Pt(2, 2), Pt(8, 8))
	straddle := BoxFromCorners(Pt(8, 8), Pt(12, 12))
	outside := BoxFromCorners(Pt(20, 20), Pt(30, 30))
	if !box.ContainsBox(inner) {
		t.Error("inner box should be contained")
	}
	if box.ContainsBox(straddle) {
		t.Error("straddling box should not be contained")
	}
	if !box.Overlaps(straddle) {
		t.Error("straddling box should overlap")
	}
	if box.Overlaps(outside) {
		t.Error("outside box should not overlap")
	}
}

func TestBoxIntersectsSegment(t *testing.T) {
	box := BoxFromCorners(Pt(0, 0), Pt(10, 10))
	if !box.IntersectsSegment(Pt(-5, 5), Pt(15, 5)) {
		t.Error("crossing segment should intersect")
	}
	if !box.IntersectsSegment(Pt(1, 1), Pt(2, 2)) {
		t.Error("interior segment should intersect")
	}
	if box.IntersectsSegment(Pt(-5, -5), Pt(-1, -1)) {
		t.Error("outside segment should not intersect")
	}
}

package entity

import (
	"math"
	"testing"

	"github.com/draftsmith/draftsmith/internal/geom"
)

func pointsClose(a, b geom.Point) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestTransformedLine(t *testing.T) {
	line := NewLine(geom.Pt(0, 0), geom.Pt(10, 0))
	moved := line.Transformed(geom.Translation(5, 5))
	if !pointsClose(moved.Start, geom.Pt(5, 5)) || !pointsClose(moved.End, geom.Pt(15, 5)) {
		t.Errorf("moved line = %v..%v", moved.Start, moved.End)
	}
	// The original is untouched.
	if !pointsClose(line.Start, geom.Pt(0, 0)) {
		t.Error("transform mutated the original")
	}
}

func TestTransformedCircleScale(t *testing.T) {
	circle := NewCircle(geom.Pt(10, 0), 5)
	scaled := circle.Transformed(geom.Scaling(geom.Pt(0, 0), 2))
	if !pointsClose(scaled.Center, geom.Pt(20, 0)) {
		t.Errorf("scaled center = %v", scaled.Center)
	}
	if !almostEqual(scaled.Radius, 10) {
		t.Errorf("scaled radius = %v, want 10", scaled.Radius)
	}
}

func TestTransformedArcRotate(t *testing.T) {
	arc := NewArc(geom.Pt(0, 0), 5, 0, math.Pi/2)
	rotated := arc.Transformed(geom.Rotation(geom.Pt(0, 0), math.Pi/2))
	if !almostEqual(rotated.StartAngle, math.Pi/2) || !almostEqual(rotated.EndAngle, math.Pi) {
		t.Errorf("rotated arc = %v..%v", rotated.StartAngle, rotated.EndAngle)
	}
}

func TestTransformedArcMirror(t *testing.T) {
	// Mirror across the x axis maps the upper-right quarter arc to the
	// lower-right, still counter-clockwise.
	arc := NewArc(geom.Pt(0, 0), 5, 0, math.Pi/2)
	mirrored := arc.Transformed(geom.Mirror(geom.Pt(0, 0), geom.Pt(1, 0)))
	start := geom.NormalizeAngle(mirrored.StartAngle)
	end := geom.NormalizeAngle(mirrored.EndAngle)
	if !almostEqual(start, 3*math.Pi/2) || !almostEqual(end, 2*math.Pi) && !almostEqual(end, 0) {
		t.Errorf("mirrored arc = %v..%v, want 3π/2..0", start, end)
	}
	// The sweep still covers the reflected quarter.
	if !geom.AngleOnArc(7*math.Pi/4, mirrored.StartAngle, mirrored.EndAngle) {
		t.Error("mirrored sweep misses the reflected quarter")
	}
}

func TestTransformedPolylineMirror(t *testing.T) {
	poly := NewPolyline([]geom.Point{geom.Pt(1, 1), geom.Pt(2, 1), geom.Pt(2, 2)}, true)
	mirrored := poly.Transformed(geom.Mirror(geom.Pt(0, 0), geom.Pt(0, 1)))
	want := []geom.Point{geom.Pt(-1, 1), geom.Pt(-2, 1), geom.Pt(-2, 2)}
	for i, v := range mirrored.Vertices {
		if !pointsClose(v, want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestTransformedTextScale(t *testing.T) {
	text := NewText(geom.Pt(0, 0), "label", 2.5)
	scaled := text.Transformed(geom.Scaling(geom.Pt(0, 0), 2))
	if !almostEqual(scaled.Height, 5) {
		t.Errorf("scaled text height = %v, want 5", scaled.Height)
	}
}

func TestTransformedDimension(t *testing.T) {
	dim := NewDimension(Dimension{
		Kind:        DimAligned,
		P1:          geom.Pt(0, 0),
		P2:          geom.Pt(10, 0),
		Line1:       geom.Pt(0, 3),
		Line2:       geom.Pt(10, 3),
		TextAnchor:  geom.Pt(5, 3),
		Measurement: 10,
	})
	scaled := dim.Transformed(geom.Scaling(geom.Pt(0, 0), 3))
	if !almostEqual(scaled.Dim.Measurement, 30) {
		t.Errorf("scaled measurement = %v, want 30", scaled.Dim.Measurement)
	}
	if !pointsClose(scaled.Dim.TextAnchor, geom.Pt(15, 9)) {
		t.Errorf("scaled anchor = %v", scaled.Dim.TextAnchor)
	}

	angular := NewDimension(Dimension{Kind: DimAngular, Measurement: 90})
	scaledAngular := angular.Transformed(geom.Scaling(geom.Pt(0, 0), 3))
	if !almostEqual(scaledAngular.Dim.Measurement, 90) {
		t.Errorf("angular measurement scaled: %v, want 90 kept", scaledAngular.Dim.Measurement)
	}
}

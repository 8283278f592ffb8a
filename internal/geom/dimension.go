package geom

import "math"

// DimensionGeometry describes the derived layout of a dimension entity:
// where its dimension line runs, where the measurement text anchors, and
// the measured value.
type DimensionGeometry struct {
	// Line1 and Line2 are the dimension-line endpoints (the measured
	// points shifted onto the dimension line).
	Line1, Line2 Point

	// Offset is the signed distance from the measured segment to the
	// dimension line along its unit normal.
	Offset float64

	// Rotation is the dimension-line direction in radians.
	Rotation float64

	// TextAnchor is where the measurement text centers.
	TextAnchor Point

	// Length is the measured value (distance, radius or sweep-degrees
	// depending on the dimension kind).
	Length float64
}

// AlignedDimension derives the geometry of a dimension parallel to the
// measured segment: the dimension line is start–end shifted by the
// projection of (dimPoint − start) onto the segment's unit normal.
// A zero-length segment reports ok=false.
func AlignedDimension(start, end, dimPoint Point) (DimensionGeometry, bool) {
	dir, ok := end.Sub(start).Unit()
	if !ok {
		return DimensionGeometry{}, false
	}
	n := dir.Normal()
	offset := dimPoint.Sub(start).Dot(n)
	shift := n.Mul(offset)
	g := DimensionGeometry{
		Line1:    start.Add(shift),
		Line2:    end.Add(shift),
		Offset:   offset,
		Rotation: start.AngleTo(end),
		Length:   start.DistanceTo(end),
	}
	g.TextAnchor = g.Line1.Mid(g.Line2)
	return g, true
}

// LinearDimension derives a horizontal or vertical dimension. The axis
// follows the dominant displacement of dimPoint from the measured
// segment's midpoint: displaced mostly vertically measures the X extent
// on a horizontal dimension line, and vice versa. Coincident points
// report ok=false.
func LinearDimension(start, end, dimPoint Point) (DimensionGeometry, bool) {
	if start.NearlyEqual(end) {
		return DimensionGeometry{}, false
	}
	mid := start.Mid(end)
	horizontal := math.Abs(dimPoint.Y-mid.Y) >= math.Abs(dimPoint.X-mid.X)
	var g DimensionGeometry
	if horizontal {
		g.Line1 = Point{X: start.X, Y: dimPoint.Y}
		g.Line2 = Point{X: end.X, Y: dimPoint.Y}
		g.Offset = dimPoint.Y - mid.Y
		g.Rotation = 0
		g.Length = math.Abs(end.X - start.X)
	} else {
		g.Line1 = Point{X: dimPoint.X, Y: start.Y}
		g.Line2 = Point{X: dimPoint.X, Y: end.Y}
		g.Offset = dimPoint.X - mid.X
		g.Rotation = math.Pi / 2
		g.Length = math.Abs(end.Y - start.Y)
	}
	if g.Length < Epsilon {
		return DimensionGeometry{}, false
	}
	g.TextAnchor = g.Line1.Mid(g.Line2)
	return g, true
}

// AngularDimension derives the geometry of an angle measured at vertex
// between the directions toward p1 and p2, with the arc drawn at the
// clicked radius and the text anchored on the bisector. Length carries
// the sweep in degrees. Degenerate directions report ok=false.
func AngularDimension(vertex, p1, p2, dimPoint Point) (DimensionGeometry, bool) {
	d1, ok1 := p1.Sub(vertex).Unit()
	d2, ok2 := p2.Sub(vertex).Unit()
	if !ok1 || !ok2 {
		return DimensionGeometry{}, false
	}
	radius := vertex.DistanceTo(dimPoint)
	if radius < Epsilon {
		return DimensionGeometry{}, false
	}
	a1 := d1.Angle()
	a2 := d2.Angle()
	sweep := NormalizeAngle(a2 - a1)
	if sweep > math.Pi {
		// Measure the included angle, swinging from the second
		// direction instead.
		a1, a2 = a2, a1
		sweep = 2*math.Pi - sweep
	}
	bisector := NormalizeAngle(a1 + sweep/2)
	g := DimensionGeometry{
		Line1:      vertex.Polar(a1, radius),
		Line2:      vertex.Polar(a2, radius),
		Offset:     radius,
		Rotation:   bisector,
		TextAnchor: vertex.Polar(bisector, radius),
		Length:     sweep * 180 / math.Pi,
	}
	return g, true
}

// RadialDimension derives the leader for a radius or diameter callout:
// a line from the center through dimPoint to the outline, text anchored
// at the clicked point. diameter doubles the reported length and runs
// the leader across the full circle. A click on the center reports
// ok=false.
func RadialDimension(center Point, radius float64, dimPoint Point, diameter bool) (DimensionGeometry, bool) {
	dir, ok := dimPoint.Sub(center).Unit()
	if !ok || radius < Epsilon {
		return DimensionGeometry{}, false
	}
	angle := dir.Angle()
	edge := center.Polar(angle, radius)
	g := DimensionGeometry{
		Line1:      center,
		Line2:      edge,
		Rotation:   angle,
		TextAnchor: dimPoint,
		Length:     radius,
	}
	if diameter {
		g.Line1 = center.Polar(angle+math.Pi, radius)
		g.Length = 2 * radius
	}
	return g, true
}

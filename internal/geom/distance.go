package geom

import "math"

// DistanceToSegment returns the planar distance from p to the segment
// ab, measured to the nearest interior point or endpoint.
func DistanceToSegment(p, a, b Point) float64 {
	return p.DistanceTo(ClosestOnSegment(p, a, b))
}

// ClosestOnSegment returns the point on segment ab nearest to p.
func ClosestOnSegment(p, a, b Point) Point {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 < Epsilon {
		return a
	}
	t := p.Sub(a).Dot(d) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(d.Mul(t))
}

// DistanceToLine returns the planar distance from p to the infinite line
// through a and b. A degenerate line collapses to the point a.
func DistanceToLine(p, a, b Point) float64 {
	d := b.Sub(a)
	l := d.Length()
	if l < Epsilon {
		return p.DistanceTo(a)
	}
	return math.Abs(d.Cross(p.Sub(a))) / l
}

// DistanceToRay returns the planar distance from p to the ray starting
// at origin toward through.
func DistanceToRay(p, origin, through Point) float64 {
	d := through.Sub(origin)
	l2 := d.Dot(d)
	if l2 < Epsilon {
		return p.DistanceTo(origin)
	}
	t := p.Sub(origin).Dot(d) / l2
	if t < 0 {
		return p.DistanceTo(origin)
	}
	return p.DistanceTo(origin.Add(d.Mul(t)))
}

// DistanceToCircle returns the unsigned distance from p to the circle
// outline with the given center and radius.
func DistanceToCircle(p, center Point, radius float64) float64 {
	return math.Abs(p.DistanceTo(center) - radius)
}

// DistanceToArc returns the distance from p to the counter-clockwise arc
// from startAngle to endAngle. Off-sweep points measure to the nearer
// arc endpoint.
func DistanceToArc(p, center Point, radius, startAngle, endAngle float64) float64 {
	a := center.AngleTo(p)
	if AngleOnArc(a, startAngle, endAngle) {
		return DistanceToCircle(p, center, radius)
	}
	s := center.Polar(startAngle, radius)
	e := center.Polar(endAngle, radius)
	return math.Min(p.DistanceTo(s), p.DistanceTo(e))
}

// DistanceToPolyline returns the distance from p to the nearest segment
// of the vertex chain; closed appends the closing segment. An empty
// chain is infinitely far, a single vertex measures point distance.
func DistanceToPolyline(p Point, vertices []Point, closed bool) float64 {
	switch len(vertices) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.DistanceTo(vertices[0])
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(vertices); i++ {
		if d := DistanceToSegment(p, vertices[i], vertices[i+1]); d < best {
			best = d
		}
	}
	if closed {
		if d := DistanceToSegment(p, vertices[len(vertices)-1], vertices[0]); d < best {
			best = d
		}
	}
	return best
}

// DistanceToEllipse returns an approximate distance from p to an
// axis-aligned ellipse rotated by rotation around its center. The point
// is mapped into ellipse-local coordinates and measured against the
// radially nearest outline point, which is exact on the axes and a tight
// approximation elsewhere (sufficient for pick tolerance tests).
func DistanceToEllipse(p, center Point, rx, ry, rotation float64) float64 {
	if rx < Epsilon || ry < Epsilon {
		return p.DistanceTo(center)
	}
	sin, cos := math.Sincos(-rotation)
	dx := p.X - center.X
	dy := p.Y - center.Y
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	a := math.Atan2(ly/ry, lx/rx)
	ox := rx * math.Cos(a)
	oy := ry * math.Sin(a)
	return math.Hypot(lx-ox, ly-oy)
}

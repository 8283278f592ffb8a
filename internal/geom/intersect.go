package geom

import "math"

// LineIntersection returns the intersection of the infinite lines
// through (p1, p2) and (p3, p4). Parallel or degenerate lines (the
// determinant within Epsilon of zero) report ok=false.
func LineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	det := d1.Cross(d2)
	if math.Abs(det) < Epsilon {
		return Point{}, false
	}
	t := p3.Sub(p1).Cross(d2) / det
	return p1.Add(d1.Mul(t)), true
}

// SegmentIntersection returns the intersection of segments ab and cd,
// including endpoints. Parallel segments report ok=false even when they
// overlap; the trim logic treats overlap as no cut.
func SegmentIntersection(a, b, c, d Point) (Point, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	det := r.Cross(s)
	if math.Abs(det) < Epsilon {
		return Point{}, false
	}
	ac := c.Sub(a)
	t := ac.Cross(s) / det
	u := ac.Cross(r) / det
	const slack = 1e-9
	if t < -slack || t > 1+slack || u < -slack || u > 1+slack {
		return Point{}, false
	}
	return a.Add(r.Mul(t)), true
}

// SegmentParam returns the parameter t of the projection of p onto the
// infinite line through ab, with t=0 at a and t=1 at b. A degenerate
// segment reports ok=false.
func SegmentParam(p, a, b Point) (float64, bool) {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 < Epsilon {
		return 0, false
	}
	return p.Sub(a).Dot(d) / l2, true
}

// LineCircleIntersections returns the 0, 1 or 2 intersection points of
// the infinite line through ab with a circle.
func LineCircleIntersections(a, b, center Point, radius float64) []Point {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 < Epsilon {
		return nil
	}
	f := a.Sub(center)
	// Quadratic in t along the line a + t·d.
	qa := l2
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - radius*radius
	disc := qb*qb - 4*qa*qc
	if disc < -Epsilon {
		return nil
	}
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	t1 := (-qb - sq) / (2 * qa)
	t2 := (-qb + sq) / (2 * qa)
	pts := []Point{a.Add(d.Mul(t1))}
	if math.Abs(t2-t1) > Epsilon {
		pts = append(pts, a.Add(d.Mul(t2)))
	}
	return pts
}

// SegmentCircleIntersections restricts LineCircleIntersections to points
// within the segment ab.
func SegmentCircleIntersections(a, b, center Point, radius float64) []Point {
	var pts []Point
	for _, p := range LineCircleIntersections(a, b, center, radius) {
		t, ok := SegmentParam(p, a, b)
		if ok && t >= -Epsilon && t <= 1+Epsilon {
			pts = append(pts, p)
		}
	}
	return pts
}

// SegmentArcIntersections restricts SegmentCircleIntersections to the
// counter-clockwise sweep from startAngle to endAngle.
func SegmentArcIntersections(a, b, center Point, radius, startAngle, endAngle float64) []Point {
	var pts []Point
	for _, p := range SegmentCircleIntersections(a, b, center, radius) {
		if AngleOnArc(center.AngleTo(p), startAngle, endAngle) {
			pts = append(pts, p)
		}
	}
	return pts
}

// CircleCircleIntersections returns the 0, 1 or 2 intersection points
// of two circle outlines. Concentric or coincident circles report none.
func CircleCircleIntersections(c1 Point, r1 float64, c2 Point, r2 float64) []Point {
	d := c1.DistanceTo(c2)
	if d < Epsilon || d > r1+r2+Epsilon || d < math.Abs(r1-r2)-Epsilon {
		return nil
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h2 := r1*r1 - a*a
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)
	dir := c2.Sub(c1).Mul(1 / d)
	mid := c1.Add(dir.Mul(a))
	if h < Epsilon {
		return []Point{mid}
	}
	n := dir.Normal()
	return []Point{mid.Add(n.Mul(h)), mid.Sub(n.Mul(h))}
}

// PointInPolygon reports whether p lies inside the closed polygon given
// by its vertices, by ray casting. Boundary points count as inside.
func PointInPolygon(p Point, vertices []Point) bool {
	if len(vertices) < 3 {
		return false
	}
	inside := false
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		a, b := vertices[i], vertices[j]
		if DistanceToSegment(p, a, b) < Epsilon {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Circumcenter returns the center of the circle through three points.
// Collinear points (|D| < Epsilon with D = 2·(x1(y2−y3)+x2(y3−y1)+x3(y1−y2)))
// report ok=false.
func Circumcenter(p1, p2, p3 Point) (Point, bool) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < Epsilon {
		return Point{}, false
	}
	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y
	return Point{
		X: (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / d,
		Y: (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / d,
	}, true
}

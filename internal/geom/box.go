package geom

import "math"

// Box is an axis-aligned rectangle given by its min and max corners.
// Selection windows and entity bounds both use it.
type Box struct {
	Min, Max Point
}

// BoxFromCorners builds a normalized box from any two opposite corners.
func BoxFromCorners(a, b Point) Box {
	return Box{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// BoxAround returns the square box of half-width r centered on p.
func BoxAround(p Point, r float64) Box {
	return Box{
		Min: Point{X: p.X - r, Y: p.Y - r},
		Max: Point{X: p.X + r, Y: p.Y + r},
	}
}

// ContainsPoint reports whether p lies inside the box (inclusive).
func (b Box) ContainsPoint(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	return b.ContainsPoint(o.Min) && b.ContainsPoint(o.Max)
}

// Overlaps reports whether b and o share any area or edge.
func (b Box) Overlaps(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Point{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Expand returns the box grown by d on every side.
func (b Box) Expand(d float64) Box {
	return Box{
		Min: Point{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Center returns the box center.
func (b Box) Center() Point {
	return b.Min.Mid(b.Max)
}

// Width returns the extent along X.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the extent along Y.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// IntersectsSegment reports whether segment pq touches the box. Either
// an endpoint inside the box or a crossing of any box edge counts.
func (b Box) IntersectsSegment(p, q Point) bool {
	if b.ContainsPoint(p) || b.ContainsPoint(q) {
		return true
	}
	corners := [4]Point{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
	for i := 0; i < 4; i++ {
		if _, ok := SegmentIntersection(p, q, corners[i], corners[(i+1)%4]); ok {
			return true
		}
	}
	return false
}

// BoxOfPoints returns the bounding box of the points and reports whether
// any were given.
func BoxOfPoints(pts ...Point) (Box, bool) {
	if len(pts) == 0 {
		return Box{}, false
	}
	b := Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b, true
}

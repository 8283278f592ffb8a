package geom

import "math"

// Epsilon is the tolerance used for degeneracy checks throughout the
// kernel: near-zero determinants, zero-length directions, coincident
// points.
const Epsilon = 1e-9

// Point is a point or vector in drawing space. Planar operations act on
// X and Y and carry Z through unchanged.
type Point struct {
	X, Y, Z float64
}

// Pt returns a point on the Z=0 plane.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q component-wise.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q component-wise.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Mul returns p scaled by f.
func (p Point) Mul(f float64) Point {
	return Point{p.X * f, p.Y * f, p.Z * f}
}

// Dot returns the planar dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the planar cross product (the Z component of p × q).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the planar length of p treated as a vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// DistanceTo returns the planar distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Angle returns the planar angle of p treated as a vector, in radians
// in (-π, π].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// AngleTo returns the angle of the vector from p to q.
func (p Point) AngleTo(q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Unit returns the planar unit vector of p and reports whether p had a
// usable length. Z is forced to zero.
func (p Point) Unit() (Point, bool) {
	l := p.Length()
	if l < Epsilon {
		return Point{}, false
	}
	return Point{p.X / l, p.Y / l, 0}, true
}

// Normal returns the planar left-hand normal of p (rotated +90°), Z
// forced to zero.
func (p Point) Normal() Point {
	return Point{-p.Y, p.X, 0}
}

// Lerp returns the linear interpolation from p to q at parameter t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		p.X + (q.X-p.X)*t,
		p.Y + (q.Y-p.Y)*t,
		p.Z + (q.Z-p.Z)*t,
	}
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return p.Lerp(q, 0.5)
}

// NearlyEqual reports whether p and q coincide within Epsilon on the
// plane.
func (p Point) NearlyEqual(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// Polar returns the point at the given planar angle and distance from p.
func (p Point) Polar(angle, distance float64) Point {
	return Point{
		p.X + math.Cos(angle)*distance,
		p.Y + math.Sin(angle)*distance,
		p.Z,
	}
}

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleOnArc reports whether angle a lies on the counter-clockwise sweep
// from start to end (all in radians).
func AngleOnArc(a, start, end float64) bool {
	a = NormalizeAngle(a - start)
	end = NormalizeAngle(end - start)
	if end < Epsilon {
		// Full circle.
		end = 2 * math.Pi
	}
	return a <= end+Epsilon
}

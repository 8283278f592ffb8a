package geom

import "math"

// TransformKind discriminates the planar transform variants the command
// layer applies to selected entities.
type TransformKind uint8

const (
	// TransformTranslate shifts by a displacement vector.
	TransformTranslate TransformKind = iota
	// TransformRotate rotates around a base point.
	TransformRotate
	// TransformScale scales uniformly around a base point.
	TransformScale
	// TransformMirror reflects across a line given by two points.
	TransformMirror
)

// Transform is a planar transform. Apply moves individual points;
// the accessor methods expose the derived quantities entity variants
// need for their non-point fields (angles under rotation and mirror,
// radii under scale).
type Transform struct {
	Kind TransformKind

	// Delta is the displacement for TransformTranslate.
	Delta Point

	// Base is the fixed point for rotate and scale.
	Base Point

	// Angle is the rotation angle in radians for TransformRotate.
	Angle float64

	// Factor is the uniform scale factor for TransformScale.
	Factor float64

	// A and B define the mirror line for TransformMirror.
	A, B Point
}

// Translation returns a transform shifting by (dx, dy).
func Translation(dx, dy float64) Transform {
	return Transform{Kind: TransformTranslate, Delta: Point{X: dx, Y: dy}}
}

// Rotation returns a transform rotating by angle radians around base.
func Rotation(base Point, angle float64) Transform {
	return Transform{Kind: TransformRotate, Base: base, Angle: angle}
}

// Scaling returns a transform scaling by factor around base.
func Scaling(base Point, factor float64) Transform {
	return Transform{Kind: TransformScale, Base: base, Factor: factor}
}

// Mirror returns a transform reflecting across the line through a and b.
func Mirror(a, b Point) Transform {
	return Transform{Kind: TransformMirror, A: a, B: b}
}

// Apply transforms a single point. Z is preserved for translate, rotate
// and mirror and scaled for scale (uniform scaling treats the drawing as
// planar, so Z is carried unchanged there as well).
func (t Transform) Apply(p Point) Point {
	switch t.Kind {
	case TransformTranslate:
		return p.Add(t.Delta)
	case TransformRotate:
		sin, cos := math.Sincos(t.Angle)
		dx := p.X - t.Base.X
		dy := p.Y - t.Base.Y
		return Point{
			X: t.Base.X + dx*cos - dy*sin,
			Y: t.Base.Y + dx*sin + dy*cos,
			Z: p.Z,
		}
	case TransformScale:
		return Point{
			X: t.Base.X + (p.X-t.Base.X)*t.Factor,
			Y: t.Base.Y + (p.Y-t.Base.Y)*t.Factor,
			Z: p.Z,
		}
	case TransformMirror:
		return mirrorPoint(p, t.A, t.B)
	default:
		return p
	}
}

// ApplyAngle maps an entity angle field (arc start/end, text rotation)
// through the transform.
func (t Transform) ApplyAngle(a float64) float64 {
	switch t.Kind {
	case TransformRotate:
		return NormalizeAngle(a + t.Angle)
	case TransformMirror:
		axis := t.A.AngleTo(t.B)
		return NormalizeAngle(2*axis - a)
	default:
		return a
	}
}

// ApplyLength maps an entity length field (radius, text height) through
// the transform. Only scaling changes lengths.
func (t Transform) ApplyLength(l float64) float64 {
	if t.Kind == TransformScale {
		return l * math.Abs(t.Factor)
	}
	return l
}

// ReversesOrientation reports whether the transform flips arc winding.
// Mirror is the only orientation-reversing transform in the set.
func (t Transform) ReversesOrientation() bool {
	return t.Kind == TransformMirror
}

// Inverse returns the inverse transform and reports whether one exists
// (scale by a factor below Epsilon has none).
func (t Transform) Inverse() (Transform, bool) {
	switch t.Kind {
	case TransformTranslate:
		return Translation(-t.Delta.X, -t.Delta.Y), true
	case TransformRotate:
		return Rotation(t.Base, -t.Angle), true
	case TransformScale:
		if math.Abs(t.Factor) < Epsilon {
			return Transform{}, false
		}
		return Scaling(t.Base, 1/t.Factor), true
	case TransformMirror:
		return t, true
	default:
		return t, true
	}
}

// mirrorPoint reflects p across the line through a and b. A degenerate
// line (a and b coincident) reflects through the point a.
func mirrorPoint(p, a, b Point) Point {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 < Epsilon {
		return Point{2*a.X - p.X, 2*a.Y - p.Y, p.Z}
	}
	t := p.Sub(a).Dot(d) / l2
	foot := a.Add(d.Mul(t))
	return Point{2*foot.X - p.X, 2*foot.Y - p.Y, p.Z}
}

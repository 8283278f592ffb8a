package geom

import "math"

// CornerSolution is the result of solving a fillet or chamfer between
// two lines. Line1 and Line2 are the trimmed replacements for the
// picked lines; for a fillet the connecting piece is the arc described
// by Center/Radius/StartAngle/EndAngle, for a chamfer it is the segment
// Cut1–Cut2.
type CornerSolution struct {
	Line1 [2]Point
	Line2 [2]Point

	// Fillet arc.
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64

	// Chamfer segment endpoints (equal to the trimmed line ends).
	Cut1, Cut2 Point
}

// SolveFillet trims two lines to their tangent points at the given
// radius and computes the connecting arc. pick1/pick2 mark which half
// of each line survives. Parallel and anti-parallel lines, zero radius
// corners whose tangent points fall beyond a line's far end, and
// degenerate segments all report ok=false.
func SolveFillet(l1a, l1b, pick1, l2a, l2b, pick2 Point, radius float64) (CornerSolution, bool) {
	x, u1, u2, f1, f2, ok := cornerFrame(l1a, l1b, pick1, l2a, l2b, pick2)
	if !ok {
		return CornerSolution{}, false
	}
	theta := math.Acos(clamp(u1.Dot(u2), -1, 1))
	if theta < Epsilon || math.Pi-theta < Epsilon {
		return CornerSolution{}, false
	}

	tan := radius / math.Tan(theta/2)
	t1 := x.Add(u1.Mul(tan))
	t2 := x.Add(u2.Mul(tan))
	if radius > 0 {
		if tan > x.DistanceTo(f1)+Epsilon || tan > x.DistanceTo(f2)+Epsilon {
			return CornerSolution{}, false
		}
	}

	sol := CornerSolution{
		Line1: [2]Point{t1, f1},
		Line2: [2]Point{t2, f2},
		Cut1:  t1,
		Cut2:  t2,
	}
	if radius > 0 {
		bis, okB := u1.Add(u2).Unit()
		if !okB {
			return CornerSolution{}, false
		}
		sol.Center = x.Add(bis.Mul(radius / math.Sin(theta/2)))
		sol.Radius = radius
		a1 := sol.Center.AngleTo(t1)
		a2 := sol.Center.AngleTo(t2)
		// The fillet arc subtends π-θ; take the counter-clockwise
		// ordering that keeps the sweep below π.
		if NormalizeAngle(a2-a1) <= math.Pi {
			sol.StartAngle, sol.EndAngle = a1, a2
		} else {
			sol.StartAngle, sol.EndAngle = a2, a1
		}
	}
	return sol, true
}

// SolveChamfer trims two lines at the given distances from their
// intersection and returns the connecting cut segment. The same
// degeneracy rules as SolveFillet apply.
func SolveChamfer(l1a, l1b, pick1, l2a, l2b, pick2 Point, dist1, dist2 float64) (CornerSolution, bool) {
	x, u1, u2, f1, f2, ok := cornerFrame(l1a, l1b, pick1, l2a, l2b, pick2)
	if !ok {
		return CornerSolution{}, false
	}
	theta := math.Acos(clamp(u1.Dot(u2), -1, 1))
	if theta < Epsilon || math.Pi-theta < Epsilon {
		return CornerSolution{}, false
	}
	if dist1 > x.DistanceTo(f1)+Epsilon || dist2 > x.DistanceTo(f2)+Epsilon {
		return CornerSolution{}, false
	}
	t1 := x.Add(u1.Mul(dist1))
	t2 := x.Add(u2.Mul(dist2))
	return CornerSolution{
		Line1: [2]Point{t1, f1},
		Line2: [2]Point{t2, f2},
		Cut1:  t1,
		Cut2:  t2,
	}, true
}

// cornerFrame intersects two picked lines and orients a unit vector
// along each one from the intersection toward its picked half. f1/f2
// are the far endpoints of the surviving halves.
func cornerFrame(l1a, l1b, pick1, l2a, l2b, pick2 Point) (x, u1, u2, f1, f2 Point, ok bool) {
	x, ok = LineIntersection(l1a, l1b, l2a, l2b)
	if !ok {
		return
	}
	u1, f1, ok = keptDirection(x, l1a, l1b, pick1)
	if !ok {
		return
	}
	u2, f2, ok = keptDirection(x, l2a, l2b, pick2)
	return
}

// keptDirection picks the half of segment ab (relative to corner x) that
// the pick point lies on, returning the unit direction from x into that
// half and the half's far endpoint.
func keptDirection(x, a, b, pick Point) (u, far Point, ok bool) {
	dir, okU := b.Sub(a).Unit()
	if !okU {
		return Point{}, Point{}, false
	}
	side := pick.Sub(x).Dot(dir)
	if math.Abs(side) < Epsilon {
		// Pick at the corner itself: fall back to the farther endpoint.
		if x.DistanceTo(b) >= x.DistanceTo(a) {
			side = 1
		} else {
			side = -1
		}
	}
	if side > 0 {
		u = dir
	} else {
		u = dir.Mul(-1)
	}
	if b.Sub(x).Dot(u) >= a.Sub(x).Dot(u) {
		far = b
	} else {
		far = a
	}
	return u, far, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

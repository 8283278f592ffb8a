package geom

import (
	"math"
	"sort"
)

// TrimLine removes the span of segment ab around the clicked point,
// cutting at the given intersection points. It returns the surviving
// sub-segments as endpoint pairs: two when the click falls between two
// cuts, one when it falls beyond the first or last cut, none when the
// whole segment is consumed. changed is false when no cut point lies
// strictly inside the segment.
func TrimLine(a, b, click Point, cuts []Point) (kept [][2]Point, changed bool) {
	tc, ok := SegmentParam(click, a, b)
	if !ok {
		return nil, false
	}
	params := make([]float64, 0, len(cuts))
	for _, c := range cuts {
		t, ok := SegmentParam(c, a, b)
		if !ok {
			continue
		}
		// Cuts at the very ends do not split anything off.
		if t > Epsilon && t < 1-Epsilon {
			params = append(params, t)
		}
	}
	if len(params) == 0 {
		return nil, false
	}
	sort.Float64s(params)

	lo := 0.0
	hasLo := false
	hi := 1.0
	hasHi := false
	for _, t := range params {
		if t <= tc {
			lo, hasLo = t, true
		} else {
			hi, hasHi = t, true
			break
		}
	}

	seg := func(t0, t1 float64) [2]Point {
		return [2]Point{a.Lerp(b, t0), a.Lerp(b, t1)}
	}
	if hasLo {
		kept = append(kept, seg(0, lo))
	}
	if hasHi {
		kept = append(kept, seg(hi, 1))
	}
	return kept, true
}

// ArcSpan is a surviving angular span of a trimmed circle or arc.
type ArcSpan struct {
	Start, End float64
}

// TrimCircle removes the clicked sector of a full circle, cutting at the
// given points on (or near) the outline. At least two distinct cut
// angles are required; the survivor is the single arc running
// counter-clockwise from the cut after the click back around to the cut
// before it.
func TrimCircle(center Point, click Point, cuts []Point) (ArcSpan, bool) {
	angles := cutAngles(center, cuts)
	if len(angles) < 2 {
		return ArcSpan{}, false
	}
	ca := NormalizeAngle(center.AngleTo(click))
	lo, hi := bracket(angles, ca)
	return ArcSpan{Start: hi, End: lo}, true
}

// TrimArc removes the clicked sub-sweep of a counter-clockwise arc,
// cutting at the given points. The survivors are the sub-arcs on either
// side of the clicked span, zero to two of them.
func TrimArc(center Point, start, end float64, click Point, cuts []Point) ([]ArcSpan, bool) {
	var offsets []float64
	for _, c := range cuts {
		a := NormalizeAngle(center.AngleTo(c) - start)
		sweep := NormalizeAngle(end - start)
		if sweep < Epsilon {
			sweep = 2 * math.Pi
		}
		if a > Epsilon && a < sweep-Epsilon {
			offsets = append(offsets, a)
		}
	}
	if len(offsets) == 0 {
		return nil, false
	}
	sort.Float64s(offsets)

	sweep := NormalizeAngle(end - start)
	if sweep < Epsilon {
		sweep = 2 * math.Pi
	}
	tc := NormalizeAngle(center.AngleTo(click) - start)
	if tc > sweep {
		// Click off the sweep trims the nearer end span.
		if tc-sweep < 2*math.Pi-tc {
			tc = sweep - Epsilon
		} else {
			tc = Epsilon
		}
	}

	lo := 0.0
	hasLo := false
	hi := sweep
	hasHi := false
	for _, t := range offsets {
		if t <= tc {
			lo, hasLo = t, true
		} else {
			hi, hasHi = t, true
			break
		}
	}
	var spans []ArcSpan
	if hasLo {
		spans = append(spans, ArcSpan{Start: start, End: NormalizeAngle(start + lo)})
	}
	if hasHi {
		spans = append(spans, ArcSpan{Start: NormalizeAngle(start + hi), End: end})
	}
	return spans, true
}

// ExtendLine lengthens segment ab toward the boundary intersection
// beyond the clicked end. hits are intersections with the boundaries on
// the infinite line through ab; only hits past the clicked endpoint
// count, and the nearest one wins. ok is false when no boundary lies
// beyond that end.
func ExtendLine(a, b, click Point, hits []Point) (newA, newB Point, ok bool) {
	tc, okP := SegmentParam(click, a, b)
	if !okP {
		return a, b, false
	}
	extendEnd := tc >= 0.5 // true: extend past b, false: past a

	best := math.Inf(1)
	found := false
	var target float64
	for _, h := range hits {
		t, okH := SegmentParam(h, a, b)
		if !okH {
			continue
		}
		if extendEnd && t > 1+Epsilon {
			if t < best {
				best, target, found = t, t, true
			}
		} else if !extendEnd && t < -Epsilon {
			// Nearest hit behind a has the greatest parameter.
			if -t < best {
				best, target, found = -t, t, true
			}
		}
	}
	if !found {
		return a, b, false
	}
	p := a.Lerp(b, target)
	if extendEnd {
		return a, p, true
	}
	return p, b, true
}

func cutAngles(center Point, cuts []Point) []float64 {
	angles := make([]float64, 0, len(cuts))
	for _, c := range cuts {
		if c.DistanceTo(center) < Epsilon {
			continue
		}
		angles = append(angles, NormalizeAngle(center.AngleTo(c)))
	}
	sort.Float64s(angles)
	// Collapse duplicates from tangent cuts.
	out := angles[:0]
	for i, a := range angles {
		if i == 0 || a-out[len(out)-1] > Epsilon {
			out = append(out, a)
		}
	}
	return out
}

// bracket returns the cut angles immediately before and after a on the
// circle, wrapping around.
func bracket(sorted []float64, a float64) (lo, hi float64) {
	lo = sorted[len(sorted)-1]
	hi = sorted[0]
	for _, c := range sorted {
		if c <= a {
			lo = c
		} else {
			hi = c
			break
		}
	}
	return lo, hi
}

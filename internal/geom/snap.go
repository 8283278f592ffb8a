package geom

// SnapKind identifies the feature a snap candidate locks onto.
// Lower values win distance ties.
type SnapKind uint8

const (
	// SnapEndpoint is a segment, arc or polyline endpoint.
	SnapEndpoint SnapKind = iota
	// SnapMidpoint is a segment midpoint.
	SnapMidpoint
	// SnapCenter is a circle, arc or ellipse center.
	SnapCenter
	// SnapQuadrant is one of the four axis points of a circle.
	SnapQuadrant
)

// String returns the osnap name used in prompts and events.
func (k SnapKind) String() string {
	switch k {
	case SnapEndpoint:
		return "endpoint"
	case SnapMidpoint:
		return "midpoint"
	case SnapCenter:
		return "center"
	case SnapQuadrant:
		return "quadrant"
	default:
		return "unknown"
	}
}

// SnapPoint is one snap candidate.
type SnapPoint struct {
	Kind  SnapKind
	Point Point
}

// BestSnap returns the candidate nearest to target within tolerance.
// Candidates at effectively the same distance resolve by kind priority:
// endpoint beats midpoint beats center beats quadrant.
func BestSnap(target Point, candidates []SnapPoint, tolerance float64) (SnapPoint, bool) {
	best := SnapPoint{}
	bestDist := tolerance
	found := false
	for _, c := range candidates {
		d := target.DistanceTo(c.Point)
		if d > tolerance {
			continue
		}
		switch {
		case !found, d < bestDist-Epsilon:
			best, bestDist, found = c, d, true
		case d < bestDist+Epsilon && c.Kind < best.Kind:
			best, bestDist = c, d
		}
	}
	return best, found
}

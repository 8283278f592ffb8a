package entity

import (
	"math"

	"github.com/draftsmith/draftsmith/internal/geom"
)

// curveSegments is how many chords approximate a full circle when a
// curved variant is flattened for plotting or box-edge tests.
const curveSegments = 32

// DistanceTo returns the planar distance from p to the entity outline,
// used for pick selection and trim/extend edge matching. Filled
// variants (DONUT ring, HATCH interior) measure zero inside the fill.
// Block references measure to their insertion point; resolving their
// members is the store's concern.
func (e Entity) DistanceTo(p geom.Point) float64 {
	switch e.Kind {
	case KindLine:
		return geom.DistanceToSegment(p, e.Start, e.End)
	case KindCircle:
		return geom.DistanceToCircle(p, e.Center, e.Radius)
	case KindArc:
		return geom.DistanceToArc(p, e.Center, e.Radius, e.StartAngle, e.EndAngle)
	case KindPolyline, KindSpline:
		return geom.DistanceToPolyline(p, e.Vertices, e.Closed)
	case KindEllipse:
		return geom.DistanceToEllipse(p, e.Center, e.RadiusX, e.RadiusY, e.Rotation)
	case KindPoint:
		return p.DistanceTo(e.Position)
	case KindDonut:
		d := p.DistanceTo(e.Center)
		if d >= e.InnerRadius && d <= e.OuterRadius {
			return 0
		}
		return math.Min(
			geom.DistanceToCircle(p, e.Center, e.InnerRadius),
			geom.DistanceToCircle(p, e.Center, e.OuterRadius),
		)
	case KindText, KindMText, KindTable:
		box := e.textBox()
		if box.ContainsPoint(p) {
			return 0
		}
		return geom.DistanceToPolyline(p, boxOutline(box), true)
	case KindHatch:
		if geom.PointInPolygon(p, e.Vertices) {
			return 0
		}
		return geom.DistanceToPolyline(p, e.Vertices, true)
	case KindRay:
		return geom.DistanceToRay(p, e.Start, e.End)
	case KindXLine:
		return geom.DistanceToLine(p, e.Start, e.End)
	case KindBlockRef:
		return p.DistanceTo(e.Position)
	case KindDim:
		if e.Dim == nil {
			return math.Inf(1)
		}
		d := geom.DistanceToSegment(p, e.Dim.Line1, e.Dim.Line2)
		return math.Min(d, p.DistanceTo(e.Dim.TextAnchor))
	default:
		return math.Inf(1)
	}
}

// Bounds returns the entity's bounding box. Unbounded variants (RAY,
// XLINE) report ok=false.
func (e Entity) Bounds() (geom.Box, bool) {
	switch e.Kind {
	case KindLine:
		return geom.BoxOfPoints(e.Start, e.End)
	case KindCircle:
		return geom.BoxAround(e.Center, e.Radius), true
	case KindDonut:
		return geom.BoxAround(e.Center, e.OuterRadius), true
	case KindArc:
		return arcBounds(e.Center, e.Radius, e.StartAngle, e.EndAngle), true
	case KindPolyline, KindSpline, KindHatch:
		return geom.BoxOfPoints(e.Vertices...)
	case KindEllipse:
		// Extent of a rotated ellipse along each axis.
		sin, cos := math.Sincos(e.Rotation)
		ex := math.Hypot(e.RadiusX*cos, e.RadiusY*sin)
		ey := math.Hypot(e.RadiusX*sin, e.RadiusY*cos)
		return geom.Box{
			Min: geom.Point{X: e.Center.X - ex, Y: e.Center.Y - ey},
			Max: geom.Point{X: e.Center.X + ex, Y: e.Center.Y + ey},
		}, true
	case KindPoint, KindBlockRef:
		return geom.BoxOfPoints(e.Position)
	case KindText, KindMText, KindTable:
		return e.textBox(), true
	case KindDim:
		if e.Dim == nil {
			return geom.Box{}, false
		}
		return geom.BoxOfPoints(e.Dim.Line1, e.Dim.Line2, e.Dim.TextAnchor)
	default:
		return geom.Box{}, false
	}
}

// ContainedIn reports whether the entity lies fully inside the box
// (WINDOW selection). Lines test their endpoints, polylines their
// vertices, circular and box-like variants their bounding box.
// Unbounded variants are never contained.
func (e Entity) ContainedIn(box geom.Box) bool {
	switch e.Kind {
	case KindLine:
		return box.ContainsPoint(e.Start) && box.ContainsPoint(e.End)
	case KindPolyline, KindSpline, KindHatch:
		if len(e.Vertices) == 0 {
			return false
		}
		for _, v := range e.Vertices {
			if !box.ContainsPoint(v) {
				return false
			}
		}
		return true
	case KindPoint, KindBlockRef:
		return box.ContainsPoint(e.Position)
	case KindRay, KindXLine:
		return false
	default:
		b, ok := e.Bounds()
		return ok && box.ContainsBox(b)
	}
}

// IntersectsBox reports whether the entity lies inside or partially
// overlaps the box (CROSSING selection).
func (e Entity) IntersectsBox(box geom.Box) bool {
	switch e.Kind {
	case KindLine:
		return box.IntersectsSegment(e.Start, e.End)
	case KindPolyline, KindSpline, KindHatch:
		closed := e.Closed || e.Kind == KindHatch
		for _, seg := range chainSegments(e.Vertices, closed) {
			if box.IntersectsSegment(seg[0], seg[1]) {
				return true
			}
		}
		return false
	case KindPoint, KindBlockRef:
		return box.ContainsPoint(e.Position)
	case KindRay:
		return box.IntersectsSegment(e.Start, farAlong(e.Start, e.End))
	case KindXLine:
		return box.IntersectsSegment(farAlong(e.End, e.Start), farAlong(e.Start, e.End))
	default:
		b, ok := e.Bounds()
		return ok && box.Overlaps(b)
	}
}

// SnapCandidates returns the entity's snap points: endpoints,
// midpoints, centers and quadrants as applicable to the variant.
func (e Entity) SnapCandidates() []geom.SnapPoint {
	switch e.Kind {
	case KindLine:
		return []geom.SnapPoint{
			{Kind: geom.SnapEndpoint, Point: e.Start},
			{Kind: geom.SnapEndpoint, Point: e.End},
			{Kind: geom.SnapMidpoint, Point: e.Start.Mid(e.End)},
		}
	case KindCircle:
		return append(quadrants(e.Center, e.Radius),
			geom.SnapPoint{Kind: geom.SnapCenter, Point: e.Center})
	case KindDonut:
		return append(quadrants(e.Center, e.OuterRadius),
			geom.SnapPoint{Kind: geom.SnapCenter, Point: e.Center})
	case KindArc:
		mid := e.StartAngle + geom.NormalizeAngle(e.EndAngle-e.StartAngle)/2
		return []geom.SnapPoint{
			{Kind: geom.SnapEndpoint, Point: e.Center.Polar(e.StartAngle, e.Radius)},
			{Kind: geom.SnapEndpoint, Point: e.Center.Polar(e.EndAngle, e.Radius)},
			{Kind: geom.SnapMidpoint, Point: e.Center.Polar(mid, e.Radius)},
			{Kind: geom.SnapCenter, Point: e.Center},
		}
	case KindPolyline, KindHatch:
		closed := e.Closed || e.Kind == KindHatch
		var pts []geom.SnapPoint
		for _, v := range e.Vertices {
			pts = append(pts, geom.SnapPoint{Kind: geom.SnapEndpoint, Point: v})
		}
		for _, seg := range chainSegments(e.Vertices, closed) {
			pts = append(pts, geom.SnapPoint{Kind: geom.SnapMidpoint, Point: seg[0].Mid(seg[1])})
		}
		return pts
	case KindSpline:
		if len(e.Vertices) == 0 {
			return nil
		}
		return []geom.SnapPoint{
			{Kind: geom.SnapEndpoint, Point: e.Vertices[0]},
			{Kind: geom.SnapEndpoint, Point: e.Vertices[len(e.Vertices)-1]},
		}
	case KindEllipse:
		sin, cos := math.Sincos(e.Rotation)
		major := geom.Point{X: e.RadiusX * cos, Y: e.RadiusX * sin}
		minor := geom.Point{X: -e.RadiusY * sin, Y: e.RadiusY * cos}
		return []geom.SnapPoint{
			{Kind: geom.SnapQuadrant, Point: e.Center.Add(major)},
			{Kind: geom.SnapQuadrant, Point: e.Center.Sub(major)},
			{Kind: geom.SnapQuadrant, Point: e.Center.Add(minor)},
			{Kind: geom.SnapQuadrant, Point: e.Center.Sub(minor)},
			{Kind: geom.SnapCenter, Point: e.Center},
		}
	case KindPoint:
		return []geom.SnapPoint{{Kind: geom.SnapEndpoint, Point: e.Position}}
	case KindText, KindMText, KindTable, KindBlockRef:
		return []geom.SnapPoint{{Kind: geom.SnapEndpoint, Point: e.Position}}
	case KindRay, KindXLine:
		return []geom.SnapPoint{{Kind: geom.SnapEndpoint, Point: e.Start}}
	case KindDim:
		if e.Dim == nil {
			return nil
		}
		return []geom.SnapPoint{
			{Kind: geom.SnapEndpoint, Point: e.Dim.Line1},
			{Kind: geom.SnapEndpoint, Point: e.Dim.Line2},
			{Kind: geom.SnapMidpoint, Point: e.Dim.TextAnchor},
		}
	default:
		return nil
	}
}

// quadrants are the four axis points of a circle of radius r.
func quadrants(center geom.Point, r float64) []geom.SnapPoint {
	return []geom.SnapPoint{
		{Kind: geom.SnapQuadrant, Point: geom.Pt(center.X+r, center.Y)},
		{Kind: geom.SnapQuadrant, Point: geom.Pt(center.X-r, center.Y)},
		{Kind: geom.SnapQuadrant, Point: geom.Pt(center.X, center.Y+r)},
		{Kind: geom.SnapQuadrant, Point: geom.Pt(center.X, center.Y-r)},
	}
}

// Segments flattens the entity to drawable line segments: exact for
// linear variants, chord-approximated for curved ones. Unbounded and
// text-like variants return nil; the renderer and plotter handle those
// separately.
func (e Entity) Segments() [][2]geom.Point {
	switch e.Kind {
	case KindLine:
		return [][2]geom.Point{{e.Start, e.End}}
	case KindPolyline, KindSpline:
		return chainSegments(e.Vertices, e.Closed)
	case KindHatch:
		return chainSegments(e.Vertices, true)
	case KindCircle:
		return sampleArc(e.Center, e.Radius, 0, 2*math.Pi)
	case KindArc:
		return sampleArc(e.Center, e.Radius, e.StartAngle, e.EndAngle)
	case KindDonut:
		segs := sampleArc(e.Center, e.OuterRadius, 0, 2*math.Pi)
		if e.InnerRadius > 0 {
			segs = append(segs, sampleArc(e.Center, e.InnerRadius, 0, 2*math.Pi)...)
		}
		return segs
	case KindEllipse:
		return sampleEllipse(e.Center, e.RadiusX, e.RadiusY, e.Rotation)
	case KindDim:
		return e.dimSegments()
	default:
		return nil
	}
}

// dimSegments renders a dimension as its dimension line, extension
// lines and, for angular dimensions, the measuring arc.
func (e Entity) dimSegments() [][2]geom.Point {
	d := e.Dim
	if d == nil {
		return nil
	}
	switch d.Kind {
	case DimAngular:
		start := d.P3.AngleTo(d.Line1)
		end := d.P3.AngleTo(d.Line2)
		segs := sampleArc(d.P3, d.P3.DistanceTo(d.Line1), start, end)
		segs = append(segs, [2]geom.Point{d.P3, d.Line1}, [2]geom.Point{d.P3, d.Line2})
		return segs
	case DimRadius, DimDiameter:
		return [][2]geom.Point{{d.Line1, d.Line2}, {d.Line2, d.Location}}
	default:
		return [][2]geom.Point{
			{d.Line1, d.Line2},
			{d.P1, d.Line1},
			{d.P2, d.Line2},
		}
	}
}

// textBox returns the occupied rectangle of a TEXT, MTEXT or TABLE
// entity. Text width is estimated from the glyph count; tables span
// their full grid below and right of the insertion point.
func (e Entity) textBox() geom.Box {
	switch e.Kind {
	case KindTable:
		w := float64(e.Cols) * e.ColWidth
		h := float64(e.Rows) * e.RowHeight
		return geom.Box{
			Min: geom.Point{X: e.Position.X, Y: e.Position.Y - h},
			Max: geom.Point{X: e.Position.X + w, Y: e.Position.Y},
		}
	case KindMText:
		w := e.Width
		est := estimatedTextWidth(e.Content, e.Height)
		if w <= 0 {
			w = est
		}
		lines := 1.0
		if w > 0 {
			lines = math.Ceil(est / w)
			if lines < 1 {
				lines = 1
			}
		}
		return geom.Box{
			Min: geom.Point{X: e.Position.X, Y: e.Position.Y - (lines-1)*e.Height},
			Max: geom.Point{X: e.Position.X + w, Y: e.Position.Y + e.Height},
		}
	default:
		return geom.Box{
			Min: e.Position,
			Max: geom.Point{X: e.Position.X + estimatedTextWidth(e.Content, e.Height), Y: e.Position.Y + e.Height},
		}
	}
}

// estimatedTextWidth approximates rendered width at 0.6 glyph aspect.
func estimatedTextWidth(content string, height float64) float64 {
	n := len([]rune(content))
	if n == 0 {
		n = 1
	}
	return float64(n) * height * 0.6
}

func boxOutline(b geom.Box) []geom.Point {
	return []geom.Point{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// chainSegments turns a vertex chain into consecutive segments, with
// the closing segment when closed.
func chainSegments(vertices []geom.Point, closed bool) [][2]geom.Point {
	if len(vertices) < 2 {
		return nil
	}
	segs := make([][2]geom.Point, 0, len(vertices))
	for i := 0; i+1 < len(vertices); i++ {
		segs = append(segs, [2]geom.Point{vertices[i], vertices[i+1]})
	}
	if closed {
		segs = append(segs, [2]geom.Point{vertices[len(vertices)-1], vertices[0]})
	}
	return segs
}

func sampleArc(center geom.Point, radius, startAngle, endAngle float64) [][2]geom.Point {
	sweep := geom.NormalizeAngle(endAngle - startAngle)
	if sweep < geom.Epsilon {
		sweep = 2 * math.Pi
	}
	n := int(math.Ceil(sweep / (2 * math.Pi) * curveSegments))
	if n < 2 {
		n = 2
	}
	segs := make([][2]geom.Point, 0, n)
	prev := center.Polar(startAngle, radius)
	for i := 1; i <= n; i++ {
		a := startAngle + sweep*float64(i)/float64(n)
		next := center.Polar(a, radius)
		segs = append(segs, [2]geom.Point{prev, next})
		prev = next
	}
	return segs
}

func sampleEllipse(center geom.Point, rx, ry, rotation float64) [][2]geom.Point {
	sin, cos := math.Sincos(rotation)
	at := func(t float64) geom.Point {
		x := rx * math.Cos(t)
		y := ry * math.Sin(t)
		return geom.Point{
			X: center.X + x*cos - y*sin,
			Y: center.Y + x*sin + y*cos,
		}
	}
	segs := make([][2]geom.Point, 0, curveSegments)
	prev := at(0)
	for i := 1; i <= curveSegments; i++ {
		next := at(2 * math.Pi * float64(i) / curveSegments)
		segs = append(segs, [2]geom.Point{prev, next})
		prev = next
	}
	return segs
}

// arcBounds is the tight bounding box of a counter-clockwise arc: its
// endpoints plus any axis quadrant the sweep passes through.
func arcBounds(center geom.Point, radius, startAngle, endAngle float64) geom.Box {
	pts := []geom.Point{
		center.Polar(startAngle, radius),
		center.Polar(endAngle, radius),
	}
	for _, q := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		if geom.AngleOnArc(q, startAngle, endAngle) {
			pts = append(pts, center.Polar(q, radius))
		}
	}
	box, _ := geom.BoxOfPoints(pts...)
	return box
}

// farAlong returns a point far along the direction from origin through
// through, standing in for an unbounded edge in finite segment tests.
func farAlong(origin, through geom.Point) geom.Point {
	dir, ok := through.Sub(origin).Unit()
	if !ok {
		return origin
	}
	return origin.Add(dir.Mul(1e9))
}

// Intersections returns the points where the outlines of a and b cross,
// for trim and extend edge matching. Linear variants use their flattened
// segments; circles and arcs intersect analytically. Unsupported kind
// pairs return nil.
func Intersections(a, b Entity) []geom.Point {
	// Circle/arc pairs get exact treatment before falling back to
	// segment chains.
	if ca, ra, okA := a.asCircle(); okA {
		if cb, rb, okB := b.asCircle(); okB {
			var pts []geom.Point
			for _, p := range geom.CircleCircleIntersections(ca, ra, cb, rb) {
				if a.onSweep(p) && b.onSweep(p) {
					pts = append(pts, p)
				}
			}
			return pts
		}
		return circleSegmentsIntersections(a, b.edgeSegments())
	}
	if _, _, okB := b.asCircle(); okB {
		return circleSegmentsIntersections(b, a.edgeSegments())
	}

	var pts []geom.Point
	for _, sa := range a.edgeSegments() {
		for _, sb := range b.edgeSegments() {
			if p, ok := geom.SegmentIntersection(sa[0], sa[1], sb[0], sb[1]); ok {
				pts = append(pts, p)
			}
		}
	}
	return pts
}

// asCircle reports the center and radius when the entity is a circular
// outline (CIRCLE or ARC).
func (e Entity) asCircle() (geom.Point, float64, bool) {
	switch e.Kind {
	case KindCircle, KindArc:
		return e.Center, e.Radius, true
	default:
		return geom.Point{}, 0, false
	}
}

// onSweep reports whether a point on the entity's circle lies on its
// drawn sweep. Full circles always do.
func (e Entity) onSweep(p geom.Point) bool {
	if e.Kind != KindArc {
		return true
	}
	return geom.AngleOnArc(e.Center.AngleTo(p), e.StartAngle, e.EndAngle)
}

// edgeSegments is Segments extended to unbounded variants by a long
// finite proxy.
func (e Entity) edgeSegments() [][2]geom.Point {
	switch e.Kind {
	case KindRay:
		return [][2]geom.Point{{e.Start, farAlong(e.Start, e.End)}}
	case KindXLine:
		return [][2]geom.Point{{farAlong(e.End, e.Start), farAlong(e.Start, e.End)}}
	default:
		return e.Segments()
	}
}

func circleSegmentsIntersections(circle Entity, segs [][2]geom.Point) []geom.Point {
	var pts []geom.Point
	for _, s := range segs {
		for _, p := range geom.SegmentCircleIntersections(s[0], s[1], circle.Center, circle.Radius) {
			if circle.onSweep(p) {
				pts = append(pts, p)
			}
		}
	}
	return pts
}

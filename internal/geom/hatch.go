package geom

import "sort"

// HatchLines fills a closed polygon with parallel segments at the
// given angle (radians) and spacing, clipped to the boundary. The
// polygon is treated as closed between its last and first vertex;
// fewer than three vertices produce no fill.
func HatchLines(boundary []Point, angle, spacing float64) [][2]Point {
	if len(boundary) < 3 || spacing < Epsilon {
		return nil
	}

	// Rotate the boundary so the fill direction becomes horizontal,
	// scan rows, then rotate the clipped segments back.
	unrotate := Rotation(Pt(0, 0), -angle)
	rotate := Rotation(Pt(0, 0), angle)
	rotated := make([]Point, len(boundary))
	for i, p := range boundary {
		rotated[i] = unrotate.Apply(p)
	}
	box, _ := BoxOfPoints(rotated...)

	var segs [][2]Point
	for y := box.Min.Y + spacing/2; y < box.Max.Y; y += spacing {
		xs := rowCrossings(rotated, y)
		for i := 0; i+1 < len(xs); i += 2 {
			segs = append(segs, [2]Point{
				rotate.Apply(Point{X: xs[i], Y: y}),
				rotate.Apply(Point{X: xs[i+1], Y: y}),
			})
		}
	}
	return segs
}

// rowCrossings returns the sorted x coordinates where the horizontal
// line at y crosses the polygon's edges. The half-open edge test keeps
// a crossing through a vertex from being counted twice.
func rowCrossings(polygon []Point, y float64) []float64 {
	var xs []float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		if (a.Y > y) == (b.Y > y) {
			continue
		}
		t := (y - a.Y) / (b.Y - a.Y)
		xs = append(xs, a.X+t*(b.X-a.X))
	}
	sort.Float64s(xs)
	return xs
}

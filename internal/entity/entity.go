// Package entity defines the drawable entity model: a tagged union of
// geometric variants with shared layer/color/style fields, plus the
// layer table types and the JSON ingestion contract.
package entity

import (
	"errors"
	"fmt"

	"github.com/draftsmith/draftsmith/internal/geom"
)

// Entity errors.
var (
	// ErrUnknownKind indicates an unrecognized entity kind.
	ErrUnknownKind = errors.New("entity: unknown kind")

	// ErrInvalidGeometry indicates geometry that violates a variant's
	// requirements.
	ErrInvalidGeometry = errors.New("entity: invalid geometry")
)

// Kind discriminates the entity variants.
type Kind string

const (
	KindLine     Kind = "LINE"
	KindCircle   Kind = "CIRCLE"
	KindArc      Kind = "ARC"
	KindPolyline Kind = "LWPOLYLINE"
	KindEllipse  Kind = "ELLIPSE"
	KindPoint    Kind = "POINT"
	KindSpline   Kind = "SPLINE"
	KindDonut    Kind = "DONUT"
	KindText     Kind = "TEXT"
	KindMText    Kind = "MTEXT"
	KindTable    Kind = "TABLE"
	KindDim      Kind = "DIMENSION"
	KindHatch    Kind = "HATCH"
	KindRay      Kind = "RAY"
	KindXLine    Kind = "XLINE"
	KindBlockRef Kind = "BLOCK_REFERENCE"
)

// Kinds lists every entity kind.
var Kinds = []Kind{
	KindLine, KindCircle, KindArc, KindPolyline, KindEllipse, KindPoint,
	KindSpline, KindDonut, KindText, KindMText, KindTable, KindDim,
	KindHatch, KindRay, KindXLine, KindBlockRef,
}

// Valid reports whether k names a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// DimKind discriminates the dimension sub-variants.
type DimKind string

const (
	DimLinear   DimKind = "linear"
	DimAligned  DimKind = "aligned"
	DimAngular  DimKind = "angular"
	DimRadius   DimKind = "radius"
	DimDiameter DimKind = "diameter"
)

// Dimension holds the defining points and derived layout of a DIMENSION
// entity. P1/P2 are the measured points (for angular: the direction
// points, with P3 the vertex; for radius/diameter: P3 is the circle
// center). Location is the clicked dimension-line placement.
type Dimension struct {
	Kind     DimKind
	P1       geom.Point
	P2       geom.Point
	P3       geom.Point
	Location geom.Point

	// Derived layout, computed at creation.
	Line1       geom.Point
	Line2       geom.Point
	TextAnchor  geom.Point
	Rotation    float64
	Measurement float64
}

// Entity is one drawable object. Kind selects which geometry fields are
// meaningful; unrelated fields stay at their zero values. Shared style
// fields apply to every variant.
type Entity struct {
	ID   uint64
	Kind Kind

	Layer      string
	Color      Color
	LineType   string
	LineWeight float64
	Visible    bool
	Locked     bool

	// LINE; RAY and XLINE reuse Start as the origin and End as a second
	// point fixing the direction.
	Start geom.Point
	End   geom.Point

	// CIRCLE, ARC, DONUT, ELLIPSE.
	Center      geom.Point
	Radius      float64
	StartAngle  float64
	EndAngle    float64
	InnerRadius float64
	OuterRadius float64
	RadiusX     float64
	RadiusY     float64

	// ELLIPSE, TEXT, MTEXT, TABLE, BLOCK_REFERENCE orientation.
	Rotation float64

	// LWPOLYLINE, SPLINE; HATCH boundary.
	Vertices []geom.Point
	Closed   bool
	Degree   int

	// POINT; insertion point for TEXT, MTEXT, TABLE, BLOCK_REFERENCE.
	Position geom.Point

	// TEXT, MTEXT.
	Content string
	Height  float64
	Width   float64

	// TABLE.
	Rows      int
	Cols      int
	RowHeight float64
	ColWidth  float64
	Cells     [][]string

	// HATCH.
	Pattern      string
	PatternScale float64
	PatternAngle float64

	// BLOCK_REFERENCE.
	BlockName   string
	ScaleFactor float64

	// DIMENSION.
	Dim *Dimension
}

// Clone returns a deep copy. Mutating the copy never affects the
// original; this is what makes copy-on-write snapshots safe.
func (e Entity) Clone() Entity {
	c := e
	if e.Vertices != nil {
		c.Vertices = make([]geom.Point, len(e.Vertices))
		copy(c.Vertices, e.Vertices)
	}
	if e.Cells != nil {
		c.Cells = make([][]string, len(e.Cells))
		for i, row := range e.Cells {
			c.Cells[i] = make([]string, len(row))
			copy(c.Cells[i], row)
		}
	}
	if e.Dim != nil {
		d := *e.Dim
		c.Dim = &d
	}
	return c
}

// Validate checks the variant's geometric requirements. Style fields
// and ids are not validated here; the store owns their defaults.
func (e Entity) Validate() error {
	switch e.Kind {
	case KindLine:
		return nil
	case KindCircle:
		if e.Radius <= 0 {
			return fmt.Errorf("%w: circle radius %v must be positive", ErrInvalidGeometry, e.Radius)
		}
	case KindArc:
		if e.Radius <= 0 {
			return fmt.Errorf("%w: arc radius %v must be positive", ErrInvalidGeometry, e.Radius)
		}
	case KindPolyline:
		if len(e.Vertices) < 2 {
			return fmt.Errorf("%w: polyline needs at least 2 vertices, got %d", ErrInvalidGeometry, len(e.Vertices))
		}
		if e.Closed && len(e.Vertices) < 3 {
			return fmt.Errorf("%w: closed polyline needs at least 3 vertices, got %d", ErrInvalidGeometry, len(e.Vertices))
		}
	case KindEllipse:
		if e.RadiusX <= 0 || e.RadiusY <= 0 {
			return fmt.Errorf("%w: ellipse radii (%v, %v) must be positive", ErrInvalidGeometry, e.RadiusX, e.RadiusY)
		}
	case KindPoint:
		return nil
	case KindSpline:
		if len(e.Vertices) < 2 {
			return fmt.Errorf("%w: spline needs at least 2 control points, got %d", ErrInvalidGeometry, len(e.Vertices))
		}
		if e.Degree < 1 || e.Degree > len(e.Vertices)-1 {
			return fmt.Errorf("%w: spline degree %d invalid for %d control points", ErrInvalidGeometry, e.Degree, len(e.Vertices))
		}
	case KindDonut:
		if e.OuterRadius <= 0 {
			return fmt.Errorf("%w: donut outer radius %v must be positive", ErrInvalidGeometry, e.OuterRadius)
		}
		if e.InnerRadius < 0 || e.InnerRadius >= e.OuterRadius {
			return fmt.Errorf("%w: donut inner radius %v must be smaller than outer %v", ErrInvalidGeometry, e.InnerRadius, e.OuterRadius)
		}
	case KindText, KindMText:
		if e.Height <= 0 {
			return fmt.Errorf("%w: text height %v must be positive", ErrInvalidGeometry, e.Height)
		}
	case KindTable:
		if e.Rows < 1 || e.Cols < 1 {
			return fmt.Errorf("%w: table needs at least 1 row and 1 column, got %dx%d", ErrInvalidGeometry, e.Rows, e.Cols)
		}
		if e.RowHeight <= 0 || e.ColWidth <= 0 {
			return fmt.Errorf("%w: table cell size (%v, %v) must be positive", ErrInvalidGeometry, e.ColWidth, e.RowHeight)
		}
	case KindHatch:
		if len(e.Vertices) < 3 {
			return fmt.Errorf("%w: hatch boundary needs at least 3 vertices, got %d", ErrInvalidGeometry, len(e.Vertices))
		}
	case KindRay, KindXLine:
		if e.Start.NearlyEqual(e.End) {
			return fmt.Errorf("%w: %s direction is undefined", ErrInvalidGeometry, e.Kind)
		}
	case KindBlockRef:
		if e.BlockName == "" {
			return fmt.Errorf("%w: block reference needs a block name", ErrInvalidGeometry)
		}
	case KindDim:
		if e.Dim == nil {
			return fmt.Errorf("%w: dimension data missing", ErrInvalidGeometry)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	return nil
}

// NewLine returns a LINE entity.
func NewLine(start, end geom.Point) Entity {
	return Entity{Kind: KindLine, Start: start, End: end}
}

// NewCircle returns a CIRCLE entity.
func NewCircle(center geom.Point, radius float64) Entity {
	return Entity{Kind: KindCircle, Center: center, Radius: radius}
}

// NewArc returns an ARC entity sweeping counter-clockwise from
// startAngle to endAngle.
func NewArc(center geom.Point, radius, startAngle, endAngle float64) Entity {
	return Entity{Kind: KindArc, Center: center, Radius: radius, StartAngle: startAngle, EndAngle: endAngle}
}

// NewPolyline returns an LWPOLYLINE entity over a copy of the vertices.
func NewPolyline(vertices []geom.Point, closed bool) Entity {
	vs := make([]geom.Point, len(vertices))
	copy(vs, vertices)
	return Entity{Kind: KindPolyline, Vertices: vs, Closed: closed}
}

// NewEllipse returns an ELLIPSE entity with the given half-axis radii
// and rotation of the major axis.
func NewEllipse(center geom.Point, radiusX, radiusY, rotation float64) Entity {
	return Entity{Kind: KindEllipse, Center: center, RadiusX: radiusX, RadiusY: radiusY, Rotation: rotation}
}

// NewPoint returns a POINT entity.
func NewPoint(position geom.Point) Entity {
	return Entity{Kind: KindPoint, Position: position}
}

// NewSpline returns a SPLINE entity over a copy of the control points.
func NewSpline(controlPoints []geom.Point, degree int) Entity {
	vs := make([]geom.Point, len(controlPoints))
	copy(vs, controlPoints)
	return Entity{Kind: KindSpline, Vertices: vs, Degree: degree}
}

// NewDonut returns a DONUT entity.
func NewDonut(center geom.Point, inner, outer float64) Entity {
	return Entity{Kind: KindDonut, Center: center, InnerRadius: inner, OuterRadius: outer}
}

// NewText returns a TEXT entity.
func NewText(position geom.Point, content string, height float64) Entity {
	return Entity{Kind: KindText, Position: position, Content: content, Height: height}
}

// NewMText returns an MTEXT entity wrapping at the given width.
func NewMText(position geom.Point, content string, height, width float64) Entity {
	return Entity{Kind: KindMText, Position: position, Content: content, Height: height, Width: width}
}

// NewTable returns a TABLE entity with empty cells.
func NewTable(position geom.Point, rows, cols int, rowHeight, colWidth float64) Entity {
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	return Entity{
		Kind: KindTable, Position: position,
		Rows: rows, Cols: cols,
		RowHeight: rowHeight, ColWidth: colWidth,
		Cells: cells,
	}
}

// NewHatch returns a HATCH entity over a copy of the boundary vertices.
func NewHatch(boundary []geom.Point, pattern string) Entity {
	vs := make([]geom.Point, len(boundary))
	copy(vs, boundary)
	return Entity{Kind: KindHatch, Vertices: vs, Pattern: pattern, PatternScale: 1}
}

// NewRay returns a RAY entity from origin through the direction point.
func NewRay(origin, through geom.Point) Entity {
	return Entity{Kind: KindRay, Start: origin, End: through}
}

// NewXLine returns an XLINE (infinite construction line) entity through
// two points.
func NewXLine(origin, through geom.Point) Entity {
	return Entity{Kind: KindXLine, Start: origin, End: through}
}

// NewBlockRef returns a BLOCK_REFERENCE entity inserting the named
// block at the given point.
func NewBlockRef(name string, insertion geom.Point, scale, rotation float64) Entity {
	return Entity{Kind: KindBlockRef, BlockName: name, Position: insertion, ScaleFactor: scale, Rotation: rotation}
}

// NewDimension returns a DIMENSION entity around the given data.
func NewDimension(d Dimension) Entity {
	return Entity{Kind: KindDim, Dim: &d}
}

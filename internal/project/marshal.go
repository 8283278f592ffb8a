package project

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// MarshalRecord serializes one entity as the ingestion record format,
// so loading reads it back through entity.IngestJSON.
func MarshalRecord(e entity.Entity) ([]byte, error) {
	b := []byte(`{}`)
	set := func(path string, value any) {
		b, _ = sjson.SetBytes(b, path, value)
	}
	setPoint := func(path string, p geom.Point) {
		set(path, []float64{p.X, p.Y, p.Z})
	}

	set("type", string(e.Kind))
	switch e.Kind {
	case entity.KindLine:
		setPoint("start", e.Start)
		setPoint("end", e.End)
	case entity.KindCircle:
		setPoint("center", e.Center)
		set("radius", e.Radius)
	case entity.KindArc:
		setPoint("center", e.Center)
		set("radius", e.Radius)
		set("startAngle", e.StartAngle)
		set("endAngle", e.EndAngle)
	case entity.KindPolyline:
		setPoints(&b, "vertices", e.Vertices)
		set("closed", e.Closed)
	case entity.KindEllipse:
		setPoint("center", e.Center)
		set("radiusX", e.RadiusX)
		set("radiusY", e.RadiusY)
		set("rotation", e.Rotation)
	case entity.KindPoint:
		setPoint("position", e.Position)
	case entity.KindSpline:
		setPoints(&b, "controlPoints", e.Vertices)
		set("degree", e.Degree)
		set("closed", e.Closed)
	case entity.KindDonut:
		setPoint("center", e.Center)
		set("innerRadius", e.InnerRadius)
		set("outerRadius", e.OuterRadius)
	case entity.KindText:
		setPoint("position", e.Position)
		set("content", e.Content)
		set("height", e.Height)
		set("rotation", e.Rotation)
	case entity.KindMText:
		setPoint("position", e.Position)
		set("content", e.Content)
		set("height", e.Height)
		set("width", e.Width)
		set("rotation", e.Rotation)
	case entity.KindTable:
		setPoint("position", e.Position)
		set("rows", e.Rows)
		set("cols", e.Cols)
		set("rowHeight", e.RowHeight)
		set("colWidth", e.ColWidth)
		set("cells", e.Cells)
	case entity.KindHatch:
		setPoints(&b, "boundary", e.Vertices)
		set("pattern", e.Pattern)
		set("scale", e.PatternScale)
		set("angle", e.PatternAngle)
	case entity.KindRay, entity.KindXLine:
		setPoint("origin", e.Start)
		setPoint("direction", e.End.Sub(e.Start))
	case entity.KindBlockRef:
		set("name", e.BlockName)
		setPoint("insertionPoint", e.Position)
		set("scale", e.ScaleFactor)
		set("rotation", e.Rotation)
	case entity.KindDim:
		if e.Dim == nil {
			return nil, fmt.Errorf("project: dimension %d has no data", e.ID)
		}
		d := e.Dim
		set("dimType", string(d.Kind))
		setPoint("location", d.Location)
		switch d.Kind {
		case entity.DimLinear, entity.DimAligned:
			setPoint("p1", d.P1)
			setPoint("p2", d.P2)
		case entity.DimAngular:
			setPoint("p1", d.P1)
			setPoint("p2", d.P2)
			setPoint("vertex", d.P3)
		case entity.DimRadius:
			setPoint("center", d.P3)
			set("radius", d.Measurement)
		case entity.DimDiameter:
			setPoint("center", d.P3)
			set("radius", d.Measurement/2)
		default:
			return nil, fmt.Errorf("project: dimension %d has unknown type %q", e.ID, d.Kind)
		}
	default:
		return nil, fmt.Errorf("project: entity %d has unknown kind %q", e.ID, e.Kind)
	}

	if e.Layer != "" {
		set("layer", e.Layer)
	}
	if !e.Color.IsByLayer() {
		set("color", string(e.Color))
	}
	return b, nil
}

func setPoints(b *[]byte, path string, pts []geom.Point) {
	coords := make([][]float64, len(pts))
	for i, p := range pts {
		coords[i] = []float64{p.X, p.Y, p.Z}
	}
	*b, _ = sjson.SetBytes(*b, path, coords)
}

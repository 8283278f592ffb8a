package entity

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/draftsmith/draftsmith/internal/geom"
)

// IngestDefaults carries the styling applied to ingested records that
// omit the optional fields.
type IngestDefaults struct {
	Layer      string
	Color      Color
	LineType   string
	LineWeight float64
}

// IngestJSON parses one entity record or an array of records of the
// form {type, ...variant fields, layer?, color?}. Coordinates accept
// number or numeric-string forms and 2-component points pad z=0.
// Records with an unknown type or missing/invalid required fields are
// rejected individually with a reason; valid records always proceed.
// Returned entities are normalized but carry no id; the store assigns
// ids on insertion.
func IngestJSON(data []byte, defaults IngestDefaults) ([]Entity, []string) {
	root := gjson.ParseBytes(data)
	var records []gjson.Result
	if root.IsArray() {
		records = root.Array()
	} else {
		records = []gjson.Result{root}
	}

	var entities []Entity
	var warnings []string
	for i, rec := range records {
		e, err := ingestRecord(rec)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		applyIngestDefaults(&e, rec, defaults)
		if err := e.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		entities = append(entities, e)
	}
	return entities, warnings
}

func ingestRecord(rec gjson.Result) (Entity, error) {
	if !rec.IsObject() {
		return Entity{}, fmt.Errorf("not an object")
	}
	kind := Kind(rec.Get("type").String())
	if !kind.Valid() {
		return Entity{}, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Get("type").String())
	}

	switch kind {
	case KindLine:
		start, err := pointField(rec, "start")
		if err != nil {
			return Entity{}, err
		}
		end, err := pointField(rec, "end")
		if err != nil {
			return Entity{}, err
		}
		return NewLine(start, end), nil

	case KindCircle:
		center, err := pointField(rec, "center")
		if err != nil {
			return Entity{}, err
		}
		radius, err := floatField(rec, "radius")
		if err != nil {
			return Entity{}, err
		}
		return NewCircle(center, radius), nil

	case KindArc:
		center, err := pointField(rec, "center")
		if err != nil {
			return Entity{}, err
		}
		radius, err := floatField(rec, "radius")
		if err != nil {
			return Entity{}, err
		}
		start, err := floatField(rec, "startAngle")
		if err != nil {
			return Entity{}, err
		}
		end, err := floatField(rec, "endAngle")
		if err != nil {
			return Entity{}, err
		}
		return NewArc(center, radius, start, end), nil

	case KindPolyline:
		vertices, err := pointsField(rec, "vertices")
		if err != nil {
			return Entity{}, err
		}
		return NewPolyline(vertices, rec.Get("closed").Bool()), nil

	case KindEllipse:
		center, err := pointField(rec, "center")
		if err != nil {
			return Entity{}, err
		}
		rx, err := floatField(rec, "radiusX")
		if err != nil {
			return Entity{}, err
		}
		ry, err := floatField(rec, "radiusY")
		if err != nil {
			return Entity{}, err
		}
		return NewEllipse(center, rx, ry, rec.Get("rotation").Float()), nil

	case KindPoint:
		position, err := pointField(rec, "position")
		if err != nil {
			return Entity{}, err
		}
		return NewPoint(position), nil

	case KindSpline:
		pts, err := pointsField(rec, "controlPoints")
		if err != nil {
			return Entity{}, err
		}
		degree := int(rec.Get("degree").Int())
		if degree == 0 {
			degree = len(pts) - 1
			if degree > 3 {
				degree = 3
			}
		}
		e := NewSpline(pts, degree)
		e.Closed = rec.Get("closed").Bool()
		return e, nil

	case KindDonut:
		center, err := pointField(rec, "center")
		if err != nil {
			return Entity{}, err
		}
		inner, err := floatField(rec, "innerRadius")
		if err != nil {
			return Entity{}, err
		}
		outer, err := floatField(rec, "outerRadius")
		if err != nil {
			return Entity{}, err
		}
		return NewDonut(center, inner, outer), nil

	case KindText, KindMText:
		position, err := pointField(rec, "position")
		if err != nil {
			return Entity{}, err
		}
		content := rec.Get("content").String()
		height, err := floatField(rec, "height")
		if err != nil {
			return Entity{}, err
		}
		if kind == KindMText {
			e := NewMText(position, content, height, rec.Get("width").Float())
			e.Rotation = rec.Get("rotation").Float()
			return e, nil
		}
		e := NewText(position, content, height)
		e.Rotation = rec.Get("rotation").Float()
		return e, nil

	case KindTable:
		position, err := pointField(rec, "position")
		if err != nil {
			return Entity{}, err
		}
		rows := int(rec.Get("rows").Int())
		cols := int(rec.Get("cols").Int())
		rowHeight := rec.Get("rowHeight").Float()
		colWidth := rec.Get("colWidth").Float()
		if rowHeight == 0 {
			rowHeight = 10
		}
		if colWidth == 0 {
			colWidth = 40
		}
		e := NewTable(position, rows, cols, rowHeight, colWidth)
		rec.Get("cells").ForEach(func(ri, row gjson.Result) bool {
			r := int(ri.Int())
			if r >= rows {
				return false
			}
			row.ForEach(func(ci, cell gjson.Result) bool {
				c := int(ci.Int())
				if c < cols {
					e.Cells[r][c] = cell.String()
				}
				return true
			})
			return true
		})
		return e, nil

	case KindHatch:
		boundary, err := pointsField(rec, "boundary")
		if err != nil {
			return Entity{}, err
		}
		pattern := rec.Get("pattern").String()
		if pattern == "" {
			pattern = "ANSI31"
		}
		e := NewHatch(boundary, pattern)
		if s := rec.Get("scale").Float(); s > 0 {
			e.PatternScale = s
		}
		e.PatternAngle = rec.Get("angle").Float()
		return e, nil

	case KindRay, KindXLine:
		origin, err := pointField(rec, "origin")
		if err != nil {
			return Entity{}, err
		}
		dir, err := pointField(rec, "direction")
		if err != nil {
			return Entity{}, err
		}
		through := origin.Add(dir)
		if kind == KindRay {
			return NewRay(origin, through), nil
		}
		return NewXLine(origin, through), nil

	case KindBlockRef:
		name := rec.Get("name").String()
		if name == "" {
			return Entity{}, fmt.Errorf("%w: block reference needs a name", ErrInvalidGeometry)
		}
		insertion, err := pointField(rec, "insertionPoint")
		if err != nil {
			return Entity{}, err
		}
		scale := rec.Get("scale").Float()
		if scale == 0 {
			scale = 1
		}
		return NewBlockRef(name, insertion, scale, rec.Get("rotation").Float()), nil

	case KindDim:
		return ingestDimension(rec)
	}
	return Entity{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// ingestDimension rebuilds a dimension from its defining points,
// re-deriving the layout through the dimension calculator.
func ingestDimension(rec gjson.Result) (Entity, error) {
	dimKind := DimKind(rec.Get("dimType").String())
	location, err := pointField(rec, "location")
	if err != nil {
		return Entity{}, err
	}

	var g geom.DimensionGeometry
	var ok bool
	d := Dimension{Kind: dimKind, Location: location}
	switch dimKind {
	case DimLinear, DimAligned:
		if d.P1, err = pointField(rec, "p1"); err != nil {
			return Entity{}, err
		}
		if d.P2, err = pointField(rec, "p2"); err != nil {
			return Entity{}, err
		}
		if dimKind == DimLinear {
			g, ok = geom.LinearDimension(d.P1, d.P2, location)
		} else {
			g, ok = geom.AlignedDimension(d.P1, d.P2, location)
		}
	case DimAngular:
		if d.P1, err = pointField(rec, "p1"); err != nil {
			return Entity{}, err
		}
		if d.P2, err = pointField(rec, "p2"); err != nil {
			return Entity{}, err
		}
		if d.P3, err = pointField(rec, "vertex"); err != nil {
			return Entity{}, err
		}
		g, ok = geom.AngularDimension(d.P3, d.P1, d.P2, location)
	case DimRadius, DimDiameter:
		if d.P3, err = pointField(rec, "center"); err != nil {
			return Entity{}, err
		}
		radius, errR := floatField(rec, "radius")
		if errR != nil {
			return Entity{}, errR
		}
		g, ok = geom.RadialDimension(d.P3, radius, location, dimKind == DimDiameter)
	default:
		return Entity{}, fmt.Errorf("%w: dimension type %q", ErrUnknownKind, dimKind)
	}
	if !ok {
		return Entity{}, fmt.Errorf("%w: degenerate dimension", ErrInvalidGeometry)
	}
	d.Line1, d.Line2 = g.Line1, g.Line2
	d.TextAnchor = g.TextAnchor
	d.Rotation = g.Rotation
	d.Measurement = g.Length
	return NewDimension(d), nil
}

func applyIngestDefaults(e *Entity, rec gjson.Result, defaults IngestDefaults) {
	e.Visible = true
	e.Layer = rec.Get("layer").String()
	if e.Layer == "" {
		e.Layer = defaults.Layer
	}
	if c := rec.Get("color").String(); c != "" {
		if parsed, err := ParseColor(c); err == nil {
			e.Color = parsed
		} else {
			e.Color = defaults.Color
		}
	} else {
		e.Color = defaults.Color
	}
	e.LineType = defaults.LineType
	e.LineWeight = defaults.LineWeight
}

// pointField reads a coordinate field: a [x, y] or [x, y, z] array or
// an {x, y, z} object, with numbers or numeric strings as components.
func pointField(rec gjson.Result, name string) (geom.Point, error) {
	v := rec.Get(name)
	if !v.Exists() {
		return geom.Point{}, fmt.Errorf("missing %s", name)
	}
	return parsePoint(v, name)
}

func parsePoint(v gjson.Result, name string) (geom.Point, error) {
	if v.IsArray() {
		parts := v.Array()
		if len(parts) < 2 || len(parts) > 3 {
			return geom.Point{}, fmt.Errorf("%s needs 2 or 3 components, got %d", name, len(parts))
		}
		coords := make([]float64, 3)
		for i, part := range parts {
			f, ok := numeric(part)
			if !ok {
				return geom.Point{}, fmt.Errorf("%s component %d is not a number", name, i)
			}
			coords[i] = f
		}
		return geom.Point{X: coords[0], Y: coords[1], Z: coords[2]}, nil
	}
	if v.IsObject() {
		x, okX := numeric(v.Get("x"))
		y, okY := numeric(v.Get("y"))
		if !okX || !okY {
			return geom.Point{}, fmt.Errorf("%s needs numeric x and y", name)
		}
		z, _ := numeric(v.Get("z"))
		return geom.Point{X: x, Y: y, Z: z}, nil
	}
	return geom.Point{}, fmt.Errorf("%s is not a point", name)
}

func pointsField(rec gjson.Result, name string) ([]geom.Point, error) {
	v := rec.Get(name)
	if !v.Exists() || !v.IsArray() {
		return nil, fmt.Errorf("missing %s", name)
	}
	arr := v.Array()
	pts := make([]geom.Point, 0, len(arr))
	for i, item := range arr {
		p, err := parsePoint(item, fmt.Sprintf("%s[%d]", name, i))
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func floatField(rec gjson.Result, name string) (float64, error) {
	v := rec.Get(name)
	if !v.Exists() {
		return 0, fmt.Errorf("missing %s", name)
	}
	f, ok := numeric(v)
	if !ok {
		return 0, fmt.Errorf("%s is not a number", name)
	}
	return f, nil
}

// numeric accepts JSON numbers and numeric strings.
func numeric(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

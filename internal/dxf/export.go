package dxf

import (
	"fmt"
	"io"
	"math"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// layer flag bits in the LAYER table's group 70.
const (
	layerFrozen = 1
	layerLocked = 4
)

// Export writes the layers and entities as a DXF stream. Variants
// without a native record degrade to their flattened line segments;
// block references expand their member geometry. The returned warnings
// name anything that could not be represented.
func Export(w io.Writer, layers []entity.Layer, entities []entity.Entity, blocks func(string) (entity.BlockDef, bool)) ([]string, error) {
	dw := newWriter(w)
	var warnings []string

	dw.pair(0, "SECTION")
	dw.pair(2, "TABLES")
	dw.pair(0, "TABLE")
	dw.pair(2, "LAYER")
	dw.int(70, len(layers))
	for _, l := range layers {
		dw.pair(0, "LAYER")
		dw.pair(2, l.Name)
		flags := 0
		if l.Frozen {
			flags |= layerFrozen
		}
		if l.Locked {
			flags |= layerLocked
		}
		dw.int(70, flags)
		aci := entity.NearestACI(l.Color)
		if !l.Plot {
			// DXF marks non-plotting layers with a negated color.
			aci = -aci
		}
		dw.int(62, aci)
		dw.pair(6, l.LineType)
	}
	dw.pair(0, "ENDTAB")
	dw.pair(0, "ENDSEC")

	dw.pair(0, "SECTION")
	dw.pair(2, "ENTITIES")
	for _, e := range entities {
		warnings = append(warnings, exportEntity(dw, e, blocks)...)
	}
	dw.pair(0, "ENDSEC")
	dw.pair(0, "EOF")
	return warnings, dw.flush()
}

func exportEntity(dw *writer, e entity.Entity, blocks func(string) (entity.BlockDef, bool)) []string {
	switch e.Kind {
	case entity.KindLine:
		common(dw, "LINE", e)
		point(dw, 10, e.Start)
		point(dw, 11, e.End)
	case entity.KindCircle:
		common(dw, "CIRCLE", e)
		point(dw, 10, e.Center)
		dw.float(40, e.Radius)
	case entity.KindArc:
		common(dw, "ARC", e)
		point(dw, 10, e.Center)
		dw.float(40, e.Radius)
		dw.float(50, e.StartAngle*180/math.Pi)
		dw.float(51, e.EndAngle*180/math.Pi)
	case entity.KindPolyline:
		common(dw, "LWPOLYLINE", e)
		dw.int(90, len(e.Vertices))
		closed := 0
		if e.Closed {
			closed = 1
		}
		dw.int(70, closed)
		for _, v := range e.Vertices {
			point(dw, 10, v)
		}
	case entity.KindPoint:
		common(dw, "POINT", e)
		point(dw, 10, e.Position)
	case entity.KindEllipse:
		common(dw, "ELLIPSE", e)
		point(dw, 10, e.Center)
		// Group 11 is the major-axis endpoint relative to the center.
		major := geom.Pt(e.RadiusX*math.Cos(e.Rotation), e.RadiusX*math.Sin(e.Rotation))
		point(dw, 11, major)
		dw.float(40, e.RadiusY/e.RadiusX)
	case entity.KindSpline:
		common(dw, "SPLINE", e)
		flags := 8 // planar
		if e.Closed {
			flags |= 1
		}
		dw.int(70, flags)
		dw.int(71, e.Degree)
		dw.int(73, len(e.Vertices))
		for _, v := range e.Vertices {
			point(dw, 10, v)
		}
	case entity.KindText:
		common(dw, "TEXT", e)
		point(dw, 10, e.Position)
		dw.float(40, e.Height)
		dw.pair(1, e.Content)
	case entity.KindMText:
		common(dw, "MTEXT", e)
		point(dw, 10, e.Position)
		dw.float(40, e.Height)
		dw.float(41, e.Width)
		dw.pair(1, e.Content)
	case entity.KindBlockRef:
		return exportBlockRef(dw, e, blocks)
	default:
		return degrade(dw, e)
	}
	return nil
}

// exportBlockRef expands the referenced definition's members through
// the reference transform and exports each.
func exportBlockRef(dw *writer, e entity.Entity, blocks func(string) (entity.BlockDef, bool)) []string {
	if blocks == nil {
		return []string{fmt.Sprintf("entity %d: block %q not resolvable, skipped", e.ID, e.BlockName)}
	}
	def, ok := blocks(e.BlockName)
	if !ok {
		return []string{fmt.Sprintf("entity %d: unknown block %q, skipped", e.ID, e.BlockName)}
	}
	var warnings []string
	for _, m := range def.Entities {
		expanded := m.
			Transformed(geom.Scaling(geom.Pt(0, 0), e.ScaleFactor)).
			Transformed(geom.Rotation(geom.Pt(0, 0), e.Rotation)).
			Transformed(geom.Translation(e.Position.X, e.Position.Y))
		if expanded.Layer == "" {
			expanded.Layer = e.Layer
		}
		warnings = append(warnings, exportEntity(dw, expanded, blocks)...)
	}
	return warnings
}

// degrade flattens a variant without a native DXF record into LINE
// segments. Variants that flatten to nothing are skipped with a
// warning.
func degrade(dw *writer, e entity.Entity) []string {
	segs := e.Segments()
	if len(segs) == 0 {
		return []string{fmt.Sprintf("entity %d: %s has no DXF mapping, skipped", e.ID, e.Kind)}
	}
	for _, seg := range segs {
		line := entity.NewLine(seg[0], seg[1])
		line.Layer, line.Color = e.Layer, e.Color
		line.LineType, line.LineWeight = e.LineType, e.LineWeight
		common(dw, "LINE", line)
		point(dw, 10, seg[0])
		point(dw, 11, seg[1])
	}
	return nil
}

// common emits the record header shared by every entity.
func common(dw *writer, record string, e entity.Entity) {
	dw.pair(0, record)
	dw.pair(8, e.Layer)
	dw.int(62, entity.NearestACI(e.Color))
	if e.LineType != "" {
		dw.pair(6, e.LineType)
	}
}

func point(dw *writer, baseCode int, p geom.Point) {
	dw.float(baseCode, p.X)
	dw.float(baseCode+10, p.Y)
	dw.float(baseCode+20, 0)
}

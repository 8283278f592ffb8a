package entity

import "github.com/draftsmith/draftsmith/internal/geom"

// Transformed returns a deep copy of the entity with the transform
// applied to its geometry. Lengths scale under scaling, angles follow
// rotation and mirroring, and mirrored arcs swap their angle bounds so
// the sweep stays counter-clockwise.
func (e Entity) Transformed(t geom.Transform) Entity {
	c := e.Clone()
	switch c.Kind {
	case KindLine, KindRay, KindXLine:
		c.Start = t.Apply(c.Start)
		c.End = t.Apply(c.End)
	case KindCircle:
		c.Center = t.Apply(c.Center)
		c.Radius = t.ApplyLength(c.Radius)
	case KindDonut:
		c.Center = t.Apply(c.Center)
		c.InnerRadius = t.ApplyLength(c.InnerRadius)
		c.OuterRadius = t.ApplyLength(c.OuterRadius)
	case KindArc:
		c.Center = t.Apply(c.Center)
		c.Radius = t.ApplyLength(c.Radius)
		if t.ReversesOrientation() {
			c.StartAngle, c.EndAngle = t.ApplyAngle(e.EndAngle), t.ApplyAngle(e.StartAngle)
		} else {
			c.StartAngle = t.ApplyAngle(e.StartAngle)
			c.EndAngle = t.ApplyAngle(e.EndAngle)
		}
	case KindPolyline, KindSpline, KindHatch:
		for i, v := range c.Vertices {
			c.Vertices[i] = t.Apply(v)
		}
		c.PatternAngle = t.ApplyAngle(c.PatternAngle)
		c.PatternScale = t.ApplyLength(c.PatternScale)
	case KindEllipse:
		c.Center = t.Apply(c.Center)
		c.RadiusX = t.ApplyLength(c.RadiusX)
		c.RadiusY = t.ApplyLength(c.RadiusY)
		c.Rotation = t.ApplyAngle(c.Rotation)
	case KindPoint:
		c.Position = t.Apply(c.Position)
	case KindText, KindMText:
		c.Position = t.Apply(c.Position)
		c.Rotation = t.ApplyAngle(c.Rotation)
		c.Height = t.ApplyLength(c.Height)
		c.Width = t.ApplyLength(c.Width)
	case KindTable:
		c.Position = t.Apply(c.Position)
		c.Rotation = t.ApplyAngle(c.Rotation)
		c.RowHeight = t.ApplyLength(c.RowHeight)
		c.ColWidth = t.ApplyLength(c.ColWidth)
	case KindBlockRef:
		c.Position = t.Apply(c.Position)
		c.Rotation = t.ApplyAngle(c.Rotation)
		c.ScaleFactor = t.ApplyLength(c.ScaleFactor)
	case KindDim:
		if c.Dim == nil {
			break
		}
		d := *c.Dim
		d.P1 = t.Apply(d.P1)
		d.P2 = t.Apply(d.P2)
		d.P3 = t.Apply(d.P3)
		d.Location = t.Apply(d.Location)
		d.Line1 = t.Apply(d.Line1)
		d.Line2 = t.Apply(d.Line2)
		d.TextAnchor = t.Apply(d.TextAnchor)
		d.Rotation = t.ApplyAngle(d.Rotation)
		if d.Kind != DimAngular {
			d.Measurement = t.ApplyLength(d.Measurement)
		}
		c.Dim = &d
	}
	return c
}

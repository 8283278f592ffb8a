// Package tui is a tcell front end for the drawing engine: a
// world-to-cell viewport, entity rasterization, and an event loop
// feeding mouse and keyboard input through the session API.
package tui

import (
	"math"

	"github.com/draftsmith/draftsmith/internal/geom"
)

// cellAspect compensates terminal cells being roughly twice as tall as
// they are wide: one row covers this many columns worth of world units.
const cellAspect = 2.0

// Viewport maps world coordinates onto terminal cells. Scale is world
// units per column; rows cover Scale*cellAspect. World y grows up,
// rows grow down.
type Viewport struct {
	Center geom.Point
	Scale  float64
}

// NewViewport starts at the origin with one world unit per column.
func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

// ToCell maps a world point to a cell in a w-by-h grid.
func (v Viewport) ToCell(p geom.Point, w, h int) (int, int) {
	col := float64(w)/2 + (p.X-v.Center.X)/v.Scale
	row := float64(h)/2 - (p.Y-v.Center.Y)/(v.Scale*cellAspect)
	return int(math.Round(col)), int(math.Round(row))
}

// ToWorld maps a cell back to the world point at its center.
func (v Viewport) ToWorld(col, row, w, h int) geom.Point {
	return geom.Point{
		X: v.Center.X + (float64(col)-float64(w)/2)*v.Scale,
		Y: v.Center.Y + (float64(h)/2-float64(row))*v.Scale*cellAspect,
	}
}

// Pan shifts the view by whole cells.
func (v *Viewport) Pan(cols, rows int) {
	v.Center.X += float64(cols) * v.Scale
	v.Center.Y -= float64(rows) * v.Scale * cellAspect
}

// Zoom scales the view by factor, keeping the world point under the
// given cell fixed.
func (v *Viewport) Zoom(factor float64, col, row, w, h int) {
	if factor <= 0 {
		return
	}
	anchor := v.ToWorld(col, row, w, h)
	v.Scale /= factor
	after := v.ToWorld(col, row, w, h)
	v.Center.X += anchor.X - after.X
	v.Center.Y += anchor.Y - after.Y
}

// ZoomExtents fits a world box into the grid with a one-cell border.
func (v *Viewport) ZoomExtents(box geom.Box, w, h int) {
	if w < 4 || h < 4 {
		return
	}
	width := box.Width()
	height := box.Height()
	if width < geom.Epsilon && height < geom.Epsilon {
		v.Center = box.Center()
		v.Scale = 1
		return
	}
	sx := width / float64(w-2)
	sy := height / (float64(h-2) * cellAspect)
	v.Scale = math.Max(sx, sy)
	if v.Scale < geom.Epsilon {
		v.Scale = geom.Epsilon
	}
	v.Center = box.Center()
}

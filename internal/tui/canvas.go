package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// Cell runes for the raster layers.
const (
	geometryRune = '█'
	pointRune    = '+'
	tempRune     = 'o'
	snapRune     = 'x'
)

// canvas rasterizes entities into the drawable region of the screen,
// the rows above the prompt and status lines.
type canvas struct {
	screen tcell.Screen
	vp     Viewport
	w, h   int

	layers   map[string]entity.Layer
	selected map[uint64]bool
	blocks   func(string) (entity.BlockDef, bool)
}

func (c *canvas) draw(entities []entity.Entity) {
	for _, e := range entities {
		if l, ok := c.layers[e.Layer]; ok && (!l.Visible || l.Frozen) {
			continue
		}
		c.entity(e, c.style(e))
	}
}

// style resolves the entity's drawn color through the layer table;
// selected entities render reversed.
func (c *canvas) style(e entity.Entity) tcell.Style {
	color := e.Color.Resolve(c.layers[e.Layer].Color)
	st := tcell.StyleDefault
	if r, g, b, ok := color.RGB(); ok {
		st = st.Foreground(tcell.NewRGBColor(int32(r*255), int32(g*255), int32(b*255)))
	}
	if c.selected[e.ID] {
		st = st.Reverse(true)
	}
	return st
}

func (c *canvas) entity(e entity.Entity, st tcell.Style) {
	switch e.Kind {
	case entity.KindPoint:
		col, row := c.vp.ToCell(e.Position, c.w, c.h)
		c.set(col, row, pointRune, st)
	case entity.KindText, entity.KindMText:
		col, row := c.vp.ToCell(e.Position, c.w, c.h)
		c.text(col, row, e.Content, st)
	case entity.KindTable:
		c.table(e, st)
	case entity.KindBlockRef:
		c.blockRef(e, st)
	case entity.KindRay, entity.KindXLine:
		c.unboundedLine(e, st)
	case entity.KindDim:
		c.segments(e.Segments(), st)
		if e.Dim != nil {
			col, row := c.vp.ToCell(e.Dim.TextAnchor, c.w, c.h)
			c.text(col, row, dimLabel(*e.Dim), st)
		}
	default:
		c.segments(e.Segments(), st)
	}
}

func (c *canvas) segments(segs [][2]geom.Point, st tcell.Style) {
	for _, s := range segs {
		x1, y1 := c.vp.ToCell(s[0], c.w, c.h)
		x2, y2 := c.vp.ToCell(s[1], c.w, c.h)
		c.line(x1, y1, x2, y2, geometryRune, st)
	}
}

// unboundedLine clips a RAY or XLINE to the current view by proxying it
// with a segment well past the visible region.
func (c *canvas) unboundedLine(e entity.Entity, st tcell.Style) {
	dir, ok := e.End.Sub(e.Start).Unit()
	if !ok {
		return
	}
	span := float64(c.w+c.h) * c.vp.Scale * cellAspect
	far := e.Start.Add(dir.Mul(span))
	near := e.Start
	if e.Kind == entity.KindXLine {
		near = e.Start.Sub(dir.Mul(span))
	}
	x1, y1 := c.vp.ToCell(near, c.w, c.h)
	x2, y2 := c.vp.ToCell(far, c.w, c.h)
	c.line(x1, y1, x2, y2, geometryRune, st)
}

func (c *canvas) table(e entity.Entity, st tcell.Style) {
	c.segments(gridSegments(e), st)
	for r := 0; r < e.Rows && r < len(e.Cells); r++ {
		for col := 0; col < e.Cols && col < len(e.Cells[r]); col++ {
			if e.Cells[r][col] == "" {
				continue
			}
			anchor := geom.Point{
				X: e.Position.X + float64(col)*e.ColWidth + 1,
				Y: e.Position.Y - float64(r)*e.RowHeight - e.RowHeight/2,
			}
			cc, cr := c.vp.ToCell(anchor, c.w, c.h)
			c.text(cc, cr, e.Cells[r][col], st)
		}
	}
}

// gridSegments is the cell lattice of a TABLE entity.
func gridSegments(e entity.Entity) [][2]geom.Point {
	w := float64(e.Cols) * e.ColWidth
	h := float64(e.Rows) * e.RowHeight
	var segs [][2]geom.Point
	for r := 0; r <= e.Rows; r++ {
		y := e.Position.Y - float64(r)*e.RowHeight
		segs = append(segs, [2]geom.Point{
			{X: e.Position.X, Y: y},
			{X: e.Position.X + w, Y: y},
		})
	}
	for col := 0; col <= e.Cols; col++ {
		x := e.Position.X + float64(col)*e.ColWidth
		segs = append(segs, [2]geom.Point{
			{X: x, Y: e.Position.Y},
			{X: x, Y: e.Position.Y - h},
		})
	}
	return segs
}

func (c *canvas) blockRef(e entity.Entity, st tcell.Style) {
	if c.blocks == nil {
		col, row := c.vp.ToCell(e.Position, c.w, c.h)
		c.set(col, row, snapRune, st)
		return
	}
	def, ok := c.blocks(e.BlockName)
	if !ok {
		col, row := c.vp.ToCell(e.Position, c.w, c.h)
		c.set(col, row, snapRune, st)
		return
	}
	for _, member := range def.Entities {
		placed := member.
			Transformed(geom.Scaling(geom.Pt(0, 0), e.ScaleFactor)).
			Transformed(geom.Rotation(geom.Pt(0, 0), e.Rotation)).
			Transformed(geom.Translation(e.Position.X, e.Position.Y))
		c.entity(placed, st)
	}
}

// tempPoints overlays the in-progress command's accepted points.
func (c *canvas) tempPoints(pts []geom.Point) {
	st := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	for _, p := range pts {
		col, row := c.vp.ToCell(p, c.w, c.h)
		c.set(col, row, tempRune, st)
	}
}

// line rasterizes a cell-space segment with Bresenham stepping.
// Segments fully outside the region are rejected up front.
func (c *canvas) line(x1, y1, x2, y2 int, r rune, st tcell.Style) {
	if (x1 < 0 && x2 < 0) || (x1 >= c.w && x2 >= c.w) ||
		(y1 < 0 && y2 < 0) || (y1 >= c.h && y2 >= c.h) {
		return
	}
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		c.set(x, y, r, st)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (c *canvas) text(col, row int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, st)
	}
}

// set writes one cell, clipped to the drawable region.
func (c *canvas) set(col, row int, r rune, st tcell.Style) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	c.screen.SetContent(col, row, r, nil, st)
}

func dimLabel(d entity.Dimension) string {
	switch d.Kind {
	case entity.DimAngular:
		return fmt.Sprintf("%.1f°", d.Measurement)
	case entity.DimRadius:
		return fmt.Sprintf("R%.2f", d.Measurement)
	case entity.DimDiameter:
		return fmt.Sprintf("⌀%.2f", d.Measurement)
	default:
		return fmt.Sprintf("%.2f", d.Measurement)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

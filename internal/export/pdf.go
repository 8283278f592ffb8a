// Package export plots drawings to PDF. The drawing's world extents
// are fit onto the page inside a margin; layers control what plots and
// in which color.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/draftsmith/draftsmith/internal/config"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// ErrNothingToPlot marks a plot with no plottable geometry.
var ErrNothingToPlot = errors.New("export: nothing to plot")

// pointsPerMM converts text heights on the page to font points.
const pointsPerMM = 72.0 / 25.4

// PlotOptions selects the page the drawing is fit onto.
type PlotOptions struct {
	PageSize    string  // "A4", "A3", "Letter"; default A4
	Orientation string  // "P" or "L"; default L
	MarginMM    float64 // default 10

	// Patterns is the hatch pattern table. Entities whose pattern name
	// is not in the table fill with a generic diagonal.
	Patterns []config.HatchPattern
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.PageSize == "" {
		o.PageSize = "A4"
	}
	if o.Orientation == "" {
		o.Orientation = "L"
	}
	if o.MarginMM <= 0 {
		o.MarginMM = 10
	}
	return o
}

// pageMap carries the world-to-page fit: uniform scale, centering
// offsets and the y flip (PDF y grows downward).
type pageMap struct {
	scale            float64
	offsetX, offsetY float64
	world            geom.Box
	pageH            float64
}

func (m pageMap) point(p geom.Point) (float64, float64) {
	x := m.offsetX + (p.X-m.world.Min.X)*m.scale
	y := m.pageH - (m.offsetY + (p.Y-m.world.Min.Y)*m.scale)
	return x, y
}

// PlotPDF renders the drawing to w as a single-page PDF. Entities on
// invisible, frozen or non-plotting layers are skipped; BYLAYER styling
// resolves through the layer table. Block references expand through the
// supplied lookup. The returned warnings name entities that could not
// be plotted.
func PlotPDF(w io.Writer, opts PlotOptions, layers []entity.Layer, entities []entity.Entity, blocks func(string) (entity.BlockDef, bool)) ([]string, error) {
	opts = opts.withDefaults()

	table := make(map[string]entity.Layer, len(layers))
	for _, l := range layers {
		table[l.Name] = l
	}

	var warnings []string
	plottable := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if l, ok := table[e.Layer]; ok && (!l.Visible || l.Frozen || !l.Plot) {
			continue
		}
		if e.Kind == entity.KindRay || e.Kind == entity.KindXLine {
			warnings = append(warnings, fmt.Sprintf("entity %d: unbounded %s does not plot", e.ID, e.Kind))
			continue
		}
		plottable = append(plottable, e)
	}

	world, ok := worldBounds(plottable, blocks)
	if !ok {
		return warnings, ErrNothingToPlot
	}

	pdf := gofpdf.New(opts.Orientation, "mm", opts.PageSize, "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	pageW, pageH := pdf.GetPageSize()
	m := fitToPage(world, pageW, pageH, opts.MarginMM)

	patterns := make(map[string]config.HatchPattern, len(opts.Patterns))
	for _, pat := range opts.Patterns {
		patterns[pat.Name] = pat
	}

	p := &plotter{pdf: pdf, m: m, table: table, blocks: blocks, patterns: patterns}
	for _, e := range plottable {
		p.entity(e)
	}
	warnings = append(warnings, p.warnings...)

	if err := pdf.Output(w); err != nil {
		return warnings, fmt.Errorf("export: plot: %w", err)
	}
	return warnings, nil
}

// worldBounds unions the bounds of every plottable entity, expanding
// block references through their definitions.
func worldBounds(entities []entity.Entity, blocks func(string) (entity.BlockDef, bool)) (geom.Box, bool) {
	var world geom.Box
	have := false
	for _, e := range entities {
		var b geom.Box
		var ok bool
		if e.Kind == entity.KindBlockRef && blocks != nil {
			b, ok = blockBounds(e, blocks)
		} else {
			b, ok = e.Bounds()
		}
		if !ok {
			continue
		}
		if !have {
			world, have = b, true
		} else {
			world = world.Union(b)
		}
	}
	if !have {
		return geom.Box{}, false
	}
	// Degenerate extents (a single point) still get a page.
	if world.Width() < geom.Epsilon && world.Height() < geom.Epsilon {
		world = world.Expand(1)
	}
	return world, true
}

func blockBounds(ref entity.Entity, blocks func(string) (entity.BlockDef, bool)) (geom.Box, bool) {
	def, ok := blocks(ref.BlockName)
	if !ok {
		return ref.Bounds()
	}
	var box geom.Box
	have := false
	for _, member := range expandBlock(ref, def) {
		b, ok := member.Bounds()
		if !ok {
			continue
		}
		if !have {
			box, have = b, true
		} else {
			box = box.Union(b)
		}
	}
	return box, have
}

// fitToPage computes the uniform scale that fits the world box inside
// the page margin, centering the leftover space.
func fitToPage(world geom.Box, pageW, pageH, margin float64) pageMap {
	availW := pageW - 2*margin
	availH := pageH - 2*margin
	scale := math.Min(availW/world.Width(), availH/world.Height())
	return pageMap{
		scale:   scale,
		offsetX: margin + (availW-world.Width()*scale)/2,
		offsetY: margin + (availH-world.Height()*scale)/2,
		world:   world,
		pageH:   pageH,
	}
}

type plotter struct {
	pdf      *gofpdf.Fpdf
	m        pageMap
	table    map[string]entity.Layer
	blocks   func(string) (entity.BlockDef, bool)
	patterns map[string]config.HatchPattern
	warnings []string
}

func (p *plotter) entity(e entity.Entity) {
	p.applyStyle(e)
	switch e.Kind {
	case entity.KindText, entity.KindMText:
		p.text(e)
	case entity.KindTable:
		p.grid(e)
	case entity.KindHatch:
		p.hatch(e)
	case entity.KindBlockRef:
		p.blockRef(e)
	case entity.KindDim:
		p.segments(e.Segments())
		if e.Dim != nil {
			p.dimLabel(*e.Dim)
		}
	case entity.KindPoint:
		p.marker(e.Position)
	default:
		segs := e.Segments()
		if len(segs) == 0 {
			p.warnings = append(p.warnings, fmt.Sprintf("entity %d: %s has no plot mapping, skipped", e.ID, e.Kind))
			return
		}
		p.segments(segs)
	}
}

// applyStyle resolves BYLAYER color and lineweight through the layer
// table and pushes them onto the pdf state.
func (p *plotter) applyStyle(e entity.Entity) {
	layer := p.table[e.Layer]
	color := e.Color.Resolve(layer.Color)
	r, g, b, ok := color.RGB()
	if !ok {
		r, g, b = 0, 0, 0
	}
	p.pdf.SetDrawColor(int(r*255), int(g*255), int(b*255))
	p.pdf.SetTextColor(int(r*255), int(g*255), int(b*255))

	weight := e.LineWeight
	if weight <= 0 {
		weight = layer.LineWeight
	}
	if weight <= 0 {
		weight = 0.25
	}
	p.pdf.SetLineWidth(weight)
}

func (p *plotter) segments(segs [][2]geom.Point) {
	for _, s := range segs {
		x1, y1 := p.m.point(s[0])
		x2, y2 := p.m.point(s[1])
		p.pdf.Line(x1, y1, x2, y2)
	}
}

// marker plots a POINT entity as a small cross, sized on the page
// rather than in world units so it stays visible at any zoom.
func (p *plotter) marker(at geom.Point) {
	const half = 1.0
	x, y := p.m.point(at)
	p.pdf.Line(x-half, y, x+half, y)
	p.pdf.Line(x, y-half, x, y+half)
}

func (p *plotter) text(e entity.Entity) {
	p.placeText(e.Position, e.Content, e.Height, e.Rotation)
}

// placeText draws a string with its baseline at the world anchor,
// scaled and rotated with the drawing.
func (p *plotter) placeText(anchor geom.Point, content string, height, rotation float64) {
	if content == "" {
		return
	}
	size := height * p.m.scale * pointsPerMM
	if size < 1 {
		size = 1
	}
	p.pdf.SetFontSize(size)
	x, y := p.m.point(anchor)
	if rotation != 0 {
		p.pdf.TransformBegin()
		p.pdf.TransformRotate(rotation*180/math.Pi, x, y)
		p.pdf.Text(x, y, content)
		p.pdf.TransformEnd()
		return
	}
	p.pdf.Text(x, y, content)
}

// grid plots a TABLE as its cell lattice plus the cell contents.
func (p *plotter) grid(e entity.Entity) {
	w := float64(e.Cols) * e.ColWidth
	h := float64(e.Rows) * e.RowHeight
	for r := 0; r <= e.Rows; r++ {
		y := e.Position.Y - float64(r)*e.RowHeight
		p.segments([][2]geom.Point{{
			{X: e.Position.X, Y: y},
			{X: e.Position.X + w, Y: y},
		}})
	}
	for c := 0; c <= e.Cols; c++ {
		x := e.Position.X + float64(c)*e.ColWidth
		p.segments([][2]geom.Point{{
			{X: x, Y: e.Position.Y},
			{X: x, Y: e.Position.Y - h},
		}})
	}
	textHeight := e.RowHeight * 0.6
	for r := 0; r < e.Rows && r < len(e.Cells); r++ {
		for c := 0; c < e.Cols && c < len(e.Cells[r]); c++ {
			if e.Cells[r][c] == "" {
				continue
			}
			anchor := geom.Point{
				X: e.Position.X + float64(c)*e.ColWidth + e.ColWidth*0.1,
				Y: e.Position.Y - float64(r+1)*e.RowHeight + e.RowHeight*0.25,
			}
			p.placeText(anchor, e.Cells[r][c], textHeight, 0)
		}
	}
}

// hatch plots the boundary and a line fill at the pattern angle and
// spacing, clipped to the boundary polygon.
func (p *plotter) hatch(e entity.Entity) {
	p.segments(e.Segments())
	if len(e.Vertices) < 3 {
		return
	}
	scale := e.PatternScale
	if scale <= 0 {
		scale = 1
	}
	spacing := 3.0 * scale
	angle := e.PatternAngle
	if pat, ok := p.patterns[e.Pattern]; ok {
		spacing = pat.Spacing * scale
		angle += pat.AngleDeg * math.Pi / 180
	}
	for _, seg := range geom.HatchLines(e.Vertices, angle, spacing) {
		p.segments([][2]geom.Point{seg})
	}
}

func (p *plotter) blockRef(e entity.Entity) {
	if p.blocks == nil {
		p.warnings = append(p.warnings, fmt.Sprintf("entity %d: block %q has no definition", e.ID, e.BlockName))
		return
	}
	def, ok := p.blocks(e.BlockName)
	if !ok {
		p.warnings = append(p.warnings, fmt.Sprintf("entity %d: block %q has no definition", e.ID, e.BlockName))
		return
	}
	for _, member := range expandBlock(e, def) {
		p.entity(member)
	}
}

// dimLabel plots the measurement text at the dimension's anchor,
// rotated with the dimension line.
func (p *plotter) dimLabel(d entity.Dimension) {
	label := formatMeasurement(d)
	height := math.Max(p.m.world.Width(), p.m.world.Height()) * 0.015
	p.placeText(d.TextAnchor, label, height, d.Rotation)
}

func formatMeasurement(d entity.Dimension) string {
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

// expandBlock instantiates a block definition's members under the
// reference's placement. Members are stored relative to the block base
// point, so the chain is scale, rotate, then translate to the insertion
// point.
func expandBlock(ref entity.Entity, def entity.BlockDef) []entity.Entity {
	members := make([]entity.Entity, 0, len(def.Entities))
	for _, member := range def.Entities {
		placed := member.
			Transformed(geom.Scaling(geom.Pt(0, 0), ref.ScaleFactor)).
			Transformed(geom.Rotation(geom.Pt(0, 0), ref.Rotation)).
			Transformed(geom.Translation(ref.Position.X, ref.Position.Y))
		if placed.Layer == "" {
			placed.Layer = ref.Layer
		}
		members = append(members, placed)
	}
	return members
}

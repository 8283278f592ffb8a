package export

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/draftsmith/draftsmith/internal/config"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

func TestPlotProducesPDF(t *testing.T) {
	layers := []entity.Layer{entity.DefaultLayer()}
	ents := []entity.Entity{
		entity.NewLine(geom.Pt(0, 0), geom.Pt(100, 50)),
		entity.NewCircle(geom.Pt(50, 25), 20),
		entity.NewText(geom.Pt(10, 10), "plan", 5),
	}
	for i := range ents {
		ents[i].ID = uint64(i + 1)
		ents[i].Layer = "0"
	}

	var buf bytes.Buffer
	warnings, err := PlotPDF(&buf, PlotOptions{}, layers, ents, nil)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Errorf("output does not start with a PDF header: %q", buf.String()[:16])
	}
}

func TestPlotHatchWithPatternTable(t *testing.T) {
	layers := []entity.Layer{entity.DefaultLayer()}
	h := entity.NewHatch([]geom.Point{
		geom.Pt(0, 0), geom.Pt(40, 0), geom.Pt(40, 40), geom.Pt(0, 40),
	}, "ANSI31")
	h.ID = 1
	h.Layer = "0"

	// A table entry with a huge spacing suppresses the fill entirely,
	// so the dense generic fill must produce a larger page stream.
	sparse := []config.HatchPattern{{Name: "ANSI31", Spacing: 1000}}
	var generic, suppressed bytes.Buffer
	if _, err := PlotPDF(&generic, PlotOptions{}, layers, []entity.Entity{h}, nil); err != nil {
		t.Fatalf("plot without table: %v", err)
	}
	if _, err := PlotPDF(&suppressed, PlotOptions{Patterns: sparse}, layers, []entity.Entity{h}, nil); err != nil {
		t.Fatalf("plot with table: %v", err)
	}
	if generic.Len() <= suppressed.Len() {
		t.Errorf("generic fill (%d bytes) should outweigh the sparse pattern (%d bytes)",
			generic.Len(), suppressed.Len())
	}
}

func TestPlotNonPlottingLayerExcluded(t *testing.T) {
	hidden := entity.Layer{ID: "notes", Name: "notes", Visible: true, Plot: false}
	e := entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 10))
	e.Layer = "notes"

	var buf bytes.Buffer
	_, err := PlotPDF(&buf, PlotOptions{}, []entity.Layer{hidden}, []entity.Entity{e}, nil)
	if !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("err = %v, want ErrNothingToPlot when everything is filtered", err)
	}
}

func TestPlotEmptyDrawing(t *testing.T) {
	var buf bytes.Buffer
	_, err := PlotPDF(&buf, PlotOptions{}, nil, nil, nil)
	if !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("err = %v, want ErrNothingToPlot", err)
	}
}

func TestPlotUnboundedWarns(t *testing.T) {
	ents := []entity.Entity{
		entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 10)),
		entity.NewXLine(geom.Pt(0, 0), geom.Pt(1, 0)),
	}
	ents[1].ID = 2

	var buf bytes.Buffer
	warnings, err := PlotPDF(&buf, PlotOptions{}, nil, ents, nil)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "XLINE") {
		t.Errorf("warnings = %v, want one naming the XLINE", warnings)
	}
}

func TestPlotUnknownBlockWarns(t *testing.T) {
	ents := []entity.Entity{
		entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 10)),
		entity.NewBlockRef("ghost", geom.Pt(5, 5), 1, 0),
	}
	lookup := func(string) (entity.BlockDef, bool) { return entity.BlockDef{}, false }

	var buf bytes.Buffer
	warnings, err := PlotPDF(&buf, PlotOptions{}, nil, ents, lookup)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "ghost") {
		t.Errorf("warnings = %v, want one naming the missing block", warnings)
	}
}

func TestFitToPageCentersAndScales(t *testing.T) {
	world := geom.Box{Min: geom.Pt(0, 0), Max: geom.Pt(100, 50)}
	m := fitToPage(world, 297, 210, 10)

	wantScale := math.Min(277.0/100, 190.0/50)
	if math.Abs(m.scale-wantScale) > 1e-9 {
		t.Fatalf("scale = %v, want %v", m.scale, wantScale)
	}
	// The world center lands on the page center.
	x, y := m.point(geom.Pt(50, 25))
	if math.Abs(x-297.0/2) > 1e-9 || math.Abs(y-210.0/2) > 1e-9 {
		t.Errorf("center maps to (%v, %v), want page center", x, y)
	}
	// Y flips: a higher world point maps to a smaller page y.
	_, yTop := m.point(geom.Pt(50, 50))
	_, yBot := m.point(geom.Pt(50, 0))
	if yTop >= yBot {
		t.Errorf("y not flipped: top %v, bottom %v", yTop, yBot)
	}
	// Everything stays inside the margin.
	for _, p := range []geom.Point{world.Min, world.Max} {
		px, py := m.point(p)
		if px < 10-1e-9 || px > 287+1e-9 || py < 10-1e-9 || py > 200+1e-9 {
			t.Errorf("%v maps outside the margin: (%v, %v)", p, px, py)
		}
	}
}

func TestFormatMeasurement(t *testing.T) {
	cases := []struct {
		kind entity.DimKind
		want string
	}{
		{entity.DimLinear, "42.50"},
		{entity.DimAligned, "42.50"},
		{entity.DimAngular, "42.5°"},
		{entity.DimRadius, "R42.50"},
		{entity.DimDiameter, "⌀42.50"},
	}
	for _, tc := range cases {
		got := formatMeasurement(entity.Dimension{Kind: tc.kind, Measurement: 42.5})
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.kind, got, tc.want)
		}
	}
}

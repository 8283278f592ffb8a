package dxf

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

func TestExportImportRoundTrip(t *testing.T) {
	layers := []entity.Layer{
		entity.DefaultLayer(),
		{Name: "walls", Color: entity.Color("#ff0000"), LineType: "DASHED", Visible: true, Locked: true, Plot: true},
	}
	ents := []entity.Entity{
		entity.NewLine(geom.Pt(0, 0), geom.Pt(10, 5)),
		entity.NewCircle(geom.Pt(3, 4), 7),
		entity.NewArc(geom.Pt(0, 0), 5, 0, math.Pi/2),
		entity.NewPolyline([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}, true),
		entity.NewPoint(geom.Pt(-2, 8)),
		entity.NewText(geom.Pt(1, 1), "hello", 2.5),
	}
	ents[0].Layer = "walls"
	ents[0].Color = entity.Color("#ff0000")

	var buf bytes.Buffer
	warnings, err := Export(&buf, layers, ents, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("export warnings: %v", warnings)
	}

	gotLayers, gotEnts, warnings, err := Import(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("import warnings: %v", warnings)
	}
	if len(gotLayers) != 2 {
		t.Fatalf("imported %d layers, want 2", len(gotLayers))
	}
	if !gotLayers[1].Locked || gotLayers[1].Name != "walls" {
		t.Errorf("walls layer = %+v, want locked", gotLayers[1])
	}
	if gotLayers[1].Color != entity.Color("#ff0000") {
		t.Errorf("walls color = %s, want #ff0000 via ACI", gotLayers[1].Color)
	}
	if len(gotEnts) != len(ents) {
		t.Fatalf("imported %d entities, want %d", len(gotEnts), len(ents))
	}

	line := gotEnts[0]
	if line.Kind != entity.KindLine || line.Start != geom.Pt(0, 0) || line.End != geom.Pt(10, 5) {
		t.Errorf("line = %+v", line)
	}
	if line.Layer != "walls" || line.Color != entity.Color("#ff0000") {
		t.Errorf("line style = layer %q color %s", line.Layer, line.Color)
	}
	arc := gotEnts[2]
	if math.Abs(arc.EndAngle-math.Pi/2) > 1e-9 {
		t.Errorf("arc end angle = %v, want pi/2", arc.EndAngle)
	}
	poly := gotEnts[3]
	if !poly.Closed || len(poly.Vertices) != 3 {
		t.Errorf("polyline = %+v, want closed with 3 vertices", poly)
	}
	text := gotEnts[5]
	if text.Content != "hello" || text.Height != 2.5 {
		t.Errorf("text = %+v", text)
	}
}

func TestEllipseRoundTrip(t *testing.T) {
	ents := []entity.Entity{entity.NewEllipse(geom.Pt(5, 5), 10, 4, math.Pi/6)}
	var buf bytes.Buffer
	if _, err := Export(&buf, nil, ents, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	_, got, _, err := Import(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("imported %d entities, want 1", len(got))
	}
	e := got[0]
	if math.Abs(e.RadiusX-10) > 1e-9 || math.Abs(e.RadiusY-4) > 1e-9 {
		t.Errorf("radii = %v, %v, want 10, 4", e.RadiusX, e.RadiusY)
	}
	if math.Abs(e.Rotation-math.Pi/6) > 1e-9 {
		t.Errorf("rotation = %v, want pi/6", e.Rotation)
	}
}

func TestDonutDegradesToSegments(t *testing.T) {
	ents := []entity.Entity{entity.NewDonut(geom.Pt(0, 0), 2, 5)}
	var buf bytes.Buffer
	warnings, err := Export(&buf, nil, ents, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if !strings.Contains(buf.String(), "LINE") {
		t.Error("degraded donut produced no LINE records")
	}
	_, got, _, err := Import(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, e := range got {
		if e.Kind != entity.KindLine {
			t.Errorf("degraded record imported as %s, want LINE", e.Kind)
		}
	}
}

func TestBlockRefExpands(t *testing.T) {
	def := entity.BlockDef{
		Name:     "part",
		Entities: []entity.Entity{entity.NewLine(geom.Pt(0, 0), geom.Pt(1, 0))},
	}
	ref := entity.NewBlockRef("part", geom.Pt(10, 10), 2, 0)
	var buf bytes.Buffer
	warnings, err := Export(&buf, nil, []entity.Entity{ref}, func(name string) (entity.BlockDef, bool) {
		if name == "part" {
			return def, true
		}
		return entity.BlockDef{}, false
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	_, got, _, err := Import(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got) != 1 || got[0].Kind != entity.KindLine {
		t.Fatalf("expanded = %+v, want one LINE", got)
	}
	if got[0].Start != geom.Pt(10, 10) || got[0].End != geom.Pt(12, 10) {
		t.Errorf("expanded line = %v -> %v, want (10,10) -> (12,10)", got[0].Start, got[0].End)
	}
}

func TestUnsupportedRecordSkippedWithWarning(t *testing.T) {
	in := strings.Join([]string{
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "3DSOLID",
		"10", "0",
		"0", "LINE",
		"10", "0",
		"20", "0",
		"11", "5",
		"21", "5",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n")
	_, ents, warnings, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("imported %d entities, want 1 (the LINE)", len(ents))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "3DSOLID") {
		t.Errorf("warnings = %v, want one naming 3DSOLID", warnings)
	}
}

func TestMalformedStream(t *testing.T) {
	_, _, _, err := Import(strings.NewReader("not-a-code\nvalue\n"))
	if err == nil {
		t.Fatal("malformed stream imported without error")
	}
}

func TestInvalidGeometrySkipped(t *testing.T) {
	in := strings.Join([]string{
		"0", "CIRCLE",
		"10", "0",
		"20", "0",
		"40", "0",
		"0", "EOF",
	}, "\n")
	_, ents, warnings, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(ents) != 0 {
		t.Errorf("zero-radius circle imported: %+v", ents)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
}

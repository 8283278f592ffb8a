package dxf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// record is one raw DXF entity or table row: its type name and groups.
type record struct {
	name   string
	groups []pair
}

// Import parses a DXF stream into layers and entities. Unsupported or
// broken records are skipped with a warning each; only a structurally
// unreadable stream is an error.
func Import(r io.Reader) ([]entity.Layer, []entity.Entity, []string, error) {
	sc := newScanner(r)
	var layers []entity.Layer
	var entities []entity.Entity
	var warnings []string

	var cur *record
	flush := func() {
		if cur == nil {
			return
		}
		switch cur.name {
		case "LAYER":
			layers = append(layers, parseLayer(*cur))
		case "SECTION", "ENDSEC", "TABLE", "ENDTAB", "EOF":
			// Structure markers carry no geometry.
		default:
			e, ok, warn := parseEntity(*cur)
			if warn != "" {
				warnings = append(warnings, warn)
			}
			if ok {
				entities = append(entities, e)
			}
		}
		cur = nil
	}

	for {
		p, err := sc.next()
		if errors.Is(err, io.EOF) {
			flush()
			return layers, entities, warnings, nil
		}
		if err != nil {
			return nil, nil, warnings, err
		}
		if p.code == 0 {
			flush()
			cur = &record{name: p.value}
			continue
		}
		if cur != nil {
			cur.groups = append(cur.groups, p)
		}
	}
}

func parseLayer(rec record) entity.Layer {
	l := entity.DefaultLayer()
	l.ID = ""
	for _, g := range rec.groups {
		switch g.code {
		case 2:
			l.ID, l.Name = g.value, g.value
		case 6:
			l.LineType = g.value
		case 62:
			aci, err := strconv.Atoi(g.value)
			if err != nil {
				continue
			}
			l.Plot = aci >= 0
			if aci < 0 {
				aci = -aci
			}
			l.Color = entity.FromACI(aci)
		case 70:
			flags, err := strconv.Atoi(g.value)
			if err != nil {
				continue
			}
			l.Frozen = flags&layerFrozen != 0
			l.Locked = flags&layerLocked != 0
		}
	}
	return l
}

// fields accumulates the groups a record variant cares about.
type fields struct {
	rec record
}

func (f fields) str(code int) string {
	for _, g := range f.rec.groups {
		if g.code == code {
			return g.value
		}
	}
	return ""
}

func (f fields) float(code int, def float64) float64 {
	s := f.str(code)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func (f fields) int(code, def int) int {
	s := f.str(code)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func (f fields) point(baseCode int) geom.Point {
	return geom.Pt(f.float(baseCode, 0), f.float(baseCode+10, 0))
}

// points collects every repeated coordinate pair (10/20 per vertex).
func (f fields) points() []geom.Point {
	var out []geom.Point
	var x float64
	haveX := false
	for _, g := range f.rec.groups {
		switch g.code {
		case 10:
			v, err := strconv.ParseFloat(g.value, 64)
			if err != nil {
				continue
			}
			x, haveX = v, true
		case 20:
			if !haveX {
				continue
			}
			v, err := strconv.ParseFloat(g.value, 64)
			if err != nil {
				continue
			}
			out = append(out, geom.Pt(x, v))
			haveX = false
		}
	}
	return out
}

func parseEntity(rec record) (entity.Entity, bool, string) {
	f := fields{rec: rec}
	var e entity.Entity
	switch rec.name {
	case "LINE":
		e = entity.NewLine(f.point(10), f.point(11))
	case "CIRCLE":
		e = entity.NewCircle(f.point(10), f.float(40, 0))
	case "ARC":
		e = entity.NewArc(f.point(10), f.float(40, 0),
			f.float(50, 0)*math.Pi/180, f.float(51, 0)*math.Pi/180)
	case "LWPOLYLINE":
		e = entity.NewPolyline(f.points(), f.int(70, 0)&1 != 0)
	case "POINT":
		e = entity.NewPoint(f.point(10))
	case "ELLIPSE":
		center := f.point(10)
		major := f.point(11)
		rx := math.Hypot(major.X, major.Y)
		ratio := f.float(40, 1)
		e = entity.NewEllipse(center, rx, rx*ratio, math.Atan2(major.Y, major.X))
	case "SPLINE":
		e = entity.NewSpline(f.points(), f.int(71, 3))
		e.Closed = f.int(70, 0)&1 != 0
	case "TEXT":
		e = entity.NewText(f.point(10), f.str(1), f.float(40, 1))
	case "MTEXT":
		e = entity.NewMText(f.point(10), f.str(1), f.float(40, 1), f.float(41, 0))
	default:
		return entity.Entity{}, false, fmt.Sprintf("unsupported DXF record %q skipped", rec.name)
	}

	if layer := f.str(8); layer != "" {
		e.Layer = layer
	}
	if s := f.str(62); s != "" {
		if aci, err := strconv.Atoi(s); err == nil {
			e.Color = entity.FromACI(aci)
		}
	}
	if lt := f.str(6); lt != "" {
		e.LineType = lt
	}
	if err := e.Validate(); err != nil {
		return entity.Entity{}, false, fmt.Sprintf("invalid %s record skipped: %v", rec.name, err)
	}
	return e, true, ""
}

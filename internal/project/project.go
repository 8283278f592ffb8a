// Package project persists drawings as multi-sheet JSON documents and
// upgrades the legacy single-sheet format on load. Saves are atomic:
// the document is written to a temp file and renamed into place.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/draftsmith/draftsmith/internal/entity"
)

// ErrMalformed marks a project file that is not a recognizable
// document.
var ErrMalformed = errors.New("project: malformed document")

// Sheet is one drawing surface of a document.
type Sheet struct {
	ID           string
	Name         string
	Entities     []entity.Entity
	IsModified   bool
	BaseUnit     string
	DrawingUnit  string
	DrawingScale float64
}

// Document is a saved project: its sheets, layer table and the active
// pointers.
type Document struct {
	Sheets        []Sheet
	ActiveSheetID string
	Layers        []entity.Layer
	ActiveLayerID string
}

// NewSheet returns an empty sheet with a fresh id and sane units.
func NewSheet(name string) Sheet {
	return Sheet{
		ID:           uuid.NewString(),
		Name:         name,
		BaseUnit:     "mm",
		DrawingUnit:  "mm",
		DrawingScale: 1,
	}
}

// sheetJSON and documentJSON are the wire forms; entities ride as raw
// ingestion records.
type sheetJSON struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Entities     []json.RawMessage `json:"entities"`
	IsModified   bool              `json:"isModified"`
	BaseUnit     string            `json:"baseUnit"`
	DrawingUnit  string            `json:"drawingUnit"`
	DrawingScale float64           `json:"drawingScale"`
}

type layerJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	LineType   string  `json:"linetype"`
	LineWeight float64 `json:"lineweight"`
	Visible    bool    `json:"visible"`
	Locked     bool    `json:"locked"`
	Frozen     bool    `json:"frozen"`
	Plot       bool    `json:"plot"`
}

type documentJSON struct {
	Sheets        []sheetJSON `json:"sheets"`
	ActiveSheetID string      `json:"activeSheetId"`
	Layers        []layerJSON `json:"layers"`
	ActiveLayerID string      `json:"activeLayerId"`
}

// Save writes the document atomically. The temp file lands in the
// target directory so the rename never crosses filesystems.
func Save(path string, doc Document) error {
	wire := documentJSON{
		ActiveSheetID: doc.ActiveSheetID,
		ActiveLayerID: doc.ActiveLayerID,
	}
	for _, s := range doc.Sheets {
		ws := sheetJSON{
			ID:           s.ID,
			Name:         s.Name,
			Entities:     make([]json.RawMessage, 0, len(s.Entities)),
			IsModified:   s.IsModified,
			BaseUnit:     s.BaseUnit,
			DrawingUnit:  s.DrawingUnit,
			DrawingScale: s.DrawingScale,
		}
		for _, e := range s.Entities {
			rec, err := MarshalRecord(e)
			if err != nil {
				return err
			}
			ws.Entities = append(ws.Entities, rec)
		}
		wire.Sheets = append(wire.Sheets, ws)
	}
	for _, l := range doc.Layers {
		wire.Layers = append(wire.Layers, layerJSON{
			ID: l.ID, Name: l.Name, Color: string(l.Color),
			LineType: l.LineType, LineWeight: l.LineWeight,
			Visible: l.Visible, Locked: l.Locked, Frozen: l.Frozen, Plot: l.Plot,
		})
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".draftsmith-*")
	if err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	return nil
}

// Load reads a document. The legacy single-sheet form
// {entities, fileName} is upgraded to a one-sheet document. The
// returned warnings list entities that failed to parse.
func Load(path string) (Document, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, nil, fmt.Errorf("project: load %s: %w", path, err)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Document{}, nil, fmt.Errorf("%w: %s", ErrMalformed, path)
	}
	if !root.Get("sheets").Exists() {
		if root.Get("entities").Exists() {
			return upgradeLegacy(root)
		}
		return Document{}, nil, fmt.Errorf("%w: %s has neither sheets nor entities", ErrMalformed, path)
	}

	var doc Document
	var warnings []string
	doc.ActiveSheetID = root.Get("activeSheetId").String()
	doc.ActiveLayerID = root.Get("activeLayerId").String()
	root.Get("sheets").ForEach(func(_, s gjson.Result) bool {
		sheet := Sheet{
			ID:           s.Get("id").String(),
			Name:         s.Get("name").String(),
			IsModified:   s.Get("isModified").Bool(),
			BaseUnit:     s.Get("baseUnit").String(),
			DrawingUnit:  s.Get("drawingUnit").String(),
			DrawingScale: s.Get("drawingScale").Float(),
		}
		if sheet.ID == "" {
			sheet.ID = uuid.NewString()
		}
		ents, warns := entity.IngestJSON([]byte(s.Get("entities").Raw), ingestDefaults())
		sheet.Entities = numberEntities(ents)
		for _, w := range warns {
			warnings = append(warnings, fmt.Sprintf("sheet %q: %s", sheet.Name, w))
		}
		doc.Sheets = append(doc.Sheets, sheet)
		return true
	})
	root.Get("layers").ForEach(func(_, l gjson.Result) bool {
		doc.Layers = append(doc.Layers, parseLayer(l))
		return true
	})
	if len(doc.Layers) == 0 {
		doc.Layers = []entity.Layer{entity.DefaultLayer()}
	}
	if doc.ActiveSheetID == "" && len(doc.Sheets) > 0 {
		doc.ActiveSheetID = doc.Sheets[0].ID
	}
	return doc, warnings, nil
}

// upgradeLegacy turns the single-sheet {entities, fileName} form into
// a one-sheet document.
func upgradeLegacy(root gjson.Result) (Document, []string, error) {
	name := root.Get("fileName").String()
	if name == "" {
		name = "Sheet 1"
	}
	sheet := NewSheet(name)
	ents, warnings := entity.IngestJSON([]byte(root.Get("entities").Raw), ingestDefaults())
	sheet.Entities = numberEntities(ents)
	return Document{
		Sheets:        []Sheet{sheet},
		ActiveSheetID: sheet.ID,
		Layers:        []entity.Layer{entity.DefaultLayer()},
		ActiveLayerID: entity.DefaultLayerName,
	}, warnings, nil
}

// numberEntities assigns sequential ids; ingestion records do not
// carry them.
func numberEntities(ents []entity.Entity) []entity.Entity {
	for i := range ents {
		ents[i].ID = uint64(i + 1)
	}
	return ents
}

func ingestDefaults() entity.IngestDefaults {
	l := entity.DefaultLayer()
	return entity.IngestDefaults{
		Layer:      l.Name,
		Color:      entity.ByLayer,
		LineType:   l.LineType,
		LineWeight: l.LineWeight,
	}
}

func parseLayer(l gjson.Result) entity.Layer {
	out := entity.Layer{
		ID:         l.Get("id").String(),
		Name:       l.Get("name").String(),
		Color:      entity.Color(l.Get("color").String()),
		LineType:   l.Get("linetype").String(),
		LineWeight: l.Get("lineweight").Float(),
		Visible:    l.Get("visible").Bool(),
		Locked:     l.Get("locked").Bool(),
		Frozen:     l.Get("frozen").Bool(),
		Plot:       l.Get("plot").Bool(),
	}
	if out.Name == "" {
		out.Name = out.ID
	}
	if out.ID == "" {
		out.ID = out.Name
	}
	return out
}

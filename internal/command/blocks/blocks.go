// Package blocks implements the block commands: BLOCK captures
// selected geometry under a name, INSERT places references to it, and
// WBLOCK writes a definition out as a JSON file.
package blocks

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// Register binds the block commands to their handler factories.
func Register(r *command.Registry) {
	r.Register(command.Block, func() command.Handler { return &blockHandler{} })
	r.Register(command.Insert, func() command.Handler { return &insertHandler{} })
	r.Register(command.WBlock, func() command.Handler { return &wblockHandler{} })
}

// blockHandler captures the selection as a named definition: entities
// are stored relative to the base point, the originals are replaced by
// a single reference at the base.
type blockHandler struct {
	picking bool
	name    string
}

func (h *blockHandler) Start(ctx *command.Context) command.Result {
	h.picking = ctx.Selection().Len() == 0
	if h.picking {
		return command.Continue("Select entities for the block")
	}
	return command.Continue("Enter block name")
}

func (h *blockHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if h.picking {
		if id, ok := ctx.Selection().HitTest(p); ok {
			ctx.Selection().Toggle(id)
			ctx.Publish(event.TopicSelectionChanged, ctx.Selection().IDs())
			return command.Continuef("%d selected, select more or press Enter", ctx.Selection().Len())
		}
		return command.NoOp("Select entities for the block")
	}
	if h.name == "" || ctx.Step != 2 {
		return command.NoOp("Enter block name first")
	}
	return h.commit(ctx, p)
}

func (h *blockHandler) OnValue(ctx *command.Context, text string) command.Result {
	if h.picking {
		if text != "" {
			return command.NoOp("")
		}
		if ctx.Selection().Len() == 0 {
			return command.Abort()
		}
		h.picking = false
		return command.Continue("Enter block name")
	}
	name := strings.TrimSpace(text)
	if name == "" {
		return command.NoOp("Enter block name")
	}
	if _, exists := ctx.Store().Block(name); exists {
		ctx.Warn("block %q already exists", name)
		return command.NoOp("Enter block name")
	}
	h.name = name
	ctx.Advance()
	return command.Continue("Specify base point")
}

func (h *blockHandler) commit(ctx *command.Context, base geom.Point) command.Result {
	ids := ctx.Selection().IDs()
	toBase := geom.Translation(-base.X, -base.Y)
	def := entity.BlockDef{Name: h.name, BasePoint: base}
	for _, id := range ids {
		e, ok := ctx.Store().Get(id)
		if !ok {
			continue
		}
		m := e.Transformed(toBase)
		m.ID = 0
		def.Entities = append(def.Entities, m)
	}
	if len(def.Entities) == 0 {
		return command.Abort()
	}

	var refID uint64
	err := ctx.Commit(func() error {
		if err := ctx.Store().AddBlock(def); err != nil {
			return err
		}
		ctx.Store().Delete(ids)
		ctx.Selection().Clear()
		var err error
		refID, err = ctx.Store().Add(entity.NewBlockRef(h.name, base, 1, 0))
		return err
	})
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityDeleted, ids)
	ctx.Publish(event.TopicEntityAdded, refID)
	ctx.Publish(event.TopicSelectionChanged, []uint64{})
	return command.Done().WithCreated(refID)
}

func (h *blockHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// insertHandler places references to a named block definition. The
// name (optionally with scale and rotation-degrees) is typed first,
// then every click drops one reference.
type insertHandler struct {
	name     string
	scale    float64
	rotation float64
}

func (h *insertHandler) Start(ctx *command.Context) command.Result {
	names := ctx.Store().BlockNames()
	if len(names) == 0 {
		ctx.Warn("no block definitions to insert")
		return command.Abort()
	}
	return command.Continuef("Enter block name [%s]", strings.Join(names, "/"))
}

func (h *insertHandler) OnValue(ctx *command.Context, text string) command.Result {
	if ctx.Step != 1 {
		return command.NoOp("")
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return command.NoOp("Enter block name")
	}
	if _, ok := ctx.Store().Block(fields[0]); !ok {
		ctx.Warn("unknown block %q", fields[0])
		return command.NoOp("Enter block name")
	}
	h.name = fields[0]
	h.scale = 1
	h.rotation = 0
	if len(fields) > 1 {
		if _, err := fmt.Sscanf(fields[1], "%f", &h.scale); err != nil || h.scale <= 0 {
			return command.NoOp("Enter block name [scale] [rotation]")
		}
	}
	if len(fields) > 2 {
		if _, err := fmt.Sscanf(fields[2], "%f", &h.rotation); err != nil {
			return command.NoOp("Enter block name [scale] [rotation]")
		}
	}
	ctx.Advance()
	return command.Continue("Specify insertion point")
}

func (h *insertHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	if ctx.Step != 2 {
		return command.NoOp("Enter block name first")
	}
	id, err := ctx.AddEntity(entity.NewBlockRef(h.name, p, h.scale, h.rotation*math.Pi/180))
	if err != nil {
		return command.Fail(err)
	}
	ctx.Publish(event.TopicEntityAdded, id)
	return command.Continue("Specify insertion point").WithCreated(id)
}

func (h *insertHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

// wblockHandler writes a block definition to disk as JSON. The block
// name comes first; the optional second value overrides the output
// path, which defaults to <name>.json in the working directory.
type wblockHandler struct {
	name string
}

func (h *wblockHandler) Start(ctx *command.Context) command.Result {
	names := ctx.Store().BlockNames()
	if len(names) == 0 {
		ctx.Warn("no block definitions to export")
		return command.Abort()
	}
	return command.Continuef("Enter block name to export [%s]", strings.Join(names, "/"))
}

func (h *wblockHandler) OnValue(ctx *command.Context, text string) command.Result {
	switch ctx.Step {
	case 1:
		name := strings.TrimSpace(text)
		if name == "" {
			return command.NoOp("Enter block name to export")
		}
		if _, ok := ctx.Store().Block(name); !ok {
			ctx.Warn("unknown block %q", name)
			return command.NoOp("Enter block name to export")
		}
		h.name = name
		ctx.Advance()
		return command.Continuef("Enter output path (Enter for %s.json)", name)
	case 2:
		path := strings.TrimSpace(text)
		if path == "" {
			path = h.name + ".json"
		}
		if err := ExportBlock(ctx.Store(), h.name, path); err != nil {
			return command.Fail(err)
		}
		ctx.Publish(event.TopicBlockExported, path)
		return command.Donef("Exported block %q to %s", h.name, path)
	}
	return command.NoOp("")
}

// ExportBlock marshals the named definition and writes it to path.
func ExportBlock(st blockSource, name, path string) error {
	def, ok := st.Block(name)
	if !ok {
		return fmt.Errorf("blocks: export: unknown block %q", name)
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("blocks: export %q: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("blocks: export %q: %w", name, err)
	}
	return nil
}

// blockSource is the slice of the store WBLOCK needs.
type blockSource interface {
	Block(name string) (entity.BlockDef, bool)
}

func (h *wblockHandler) OnPoint(ctx *command.Context, p geom.Point) command.Result {
	return command.NoOp("")
}

func (h *wblockHandler) Cancel(ctx *command.Context) command.Result {
	return command.Done()
}

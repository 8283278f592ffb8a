package command

import (
	"fmt"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
	"github.com/draftsmith/draftsmith/internal/history"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/selection"
	"github.com/draftsmith/draftsmith/internal/store"
)

// Settings are the numeric knobs handlers consult.
type Settings struct {
	// PickThreshold is the hit-test distance in world units.
	PickThreshold float64
	// SnapTolerance is the object-snap capture distance.
	SnapTolerance float64
	// CloseThreshold is the distance under which a LINE click back at
	// the first point closes the loop.
	CloseThreshold float64
	// JoinTolerance is the endpoint-matching distance for JOIN.
	JoinTolerance float64
	// PolarIncrementDeg is the polar-tracking angle step in degrees.
	PolarIncrementDeg float64
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		PickThreshold:     5.0,
		SnapTolerance:     8.0,
		CloseThreshold:    5.0,
		JoinTolerance:     1e-6,
		PolarIncrementDeg: 45,
	}
}

// Context is the execution context of one command activation. The
// session creates it on start and passes it to every handler call.
// Step and Temp hold the shared step counter and collected points;
// all drawing mutation goes through Commit so every committed step is
// one history item.
type Context struct {
	Command Name
	Step    int
	Temp    []geom.Point

	store    *store.Store
	sel      *selection.Manager
	hist     *history.Manager
	bus      *event.Bus
	logger   *log.Logger
	settings Settings
}

// NewContext wires a context for one command activation.
func NewContext(name Name, st *store.Store, sel *selection.Manager, hist *history.Manager, bus *event.Bus, logger *log.Logger, settings Settings) *Context {
	if logger == nil {
		logger = log.Null
	}
	return &Context{
		Command:  name,
		Step:     1,
		store:    st,
		sel:      sel,
		hist:     hist,
		bus:      bus,
		logger:   logger.WithComponent("command"),
		settings: settings,
	}
}

// Store exposes the entity store for reads. Handlers mutate it only
// inside Commit.
func (c *Context) Store() *store.Store { return c.store }

// Selection exposes the selection manager.
func (c *Context) Selection() *selection.Manager { return c.sel }

// Settings returns the numeric knobs.
func (c *Context) Settings() Settings { return c.settings }

// History exposes the undo/redo manager.
func (c *Context) History() *history.Manager { return c.hist }

// Logger returns the command logger.
func (c *Context) Logger() *log.Logger { return c.logger }

// Advance increments the step counter.
func (c *Context) Advance() { c.Step++ }

// Reset rewinds to the given step and clears the collected points,
// as when a looping command starts its next repetition.
func (c *Context) Reset(step int) {
	c.Step = step
	c.Temp = nil
}

// PushTemp appends a collected point.
func (c *Context) PushTemp(p geom.Point) { c.Temp = append(c.Temp, p) }

// LastTemp returns the most recently collected point.
func (c *Context) LastTemp() (geom.Point, bool) {
	if len(c.Temp) == 0 {
		return geom.Point{}, false
	}
	return c.Temp[len(c.Temp)-1], true
}

// Warn logs a warning and publishes it on the warning topic.
func (c *Context) Warn(format string, args ...any) {
	c.logger.Warn(format, args...)
	if c.bus != nil {
		c.bus.Publish(event.TopicWarning, fmt.Sprintf(format, args...))
	}
}

// Publish forwards an event to the bus, if one is wired.
func (c *Context) Publish(topic event.Topic, data any) {
	if c.bus != nil {
		c.bus.Publish(topic, data)
	}
}

// Commit wraps a mutation in a history item: it snapshots the store
// and selection, runs mutate, snapshots again and pushes the pair. If
// mutate fails the before state is restored, so a failed step never
// leaves partial edits behind.
func (c *Context) Commit(mutate func() error) error {
	before := history.CloneState(c.store.Snapshot(), c.sel.IDs())
	if err := mutate(); err != nil {
		c.store.Restore(before.Entities)
		c.sel.Restore(before.Selection)
		return err
	}
	after := history.CloneState(c.store.Snapshot(), c.sel.IDs())
	c.hist.Push(string(c.Command), before, after)
	c.Publish(event.TopicHistoryChanged, string(c.Command))
	return nil
}

// AddEntity commits a single new entity and returns its id.
func (c *Context) AddEntity(e entity.Entity) (uint64, error) {
	var id uint64
	err := c.Commit(func() error {
		var err error
		id, err = c.store.Add(e)
		return err
	})
	if err != nil {
		return 0, err
	}
	c.Publish(event.TopicEntityAdded, id)
	return id, nil
}

// AddEntities commits a batch of new entities as one history item and
// returns their ids.
func (c *Context) AddEntities(es []entity.Entity) ([]uint64, error) {
	ids := make([]uint64, 0, len(es))
	err := c.Commit(func() error {
		for _, e := range es {
			id, err := c.store.Add(e)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		c.Publish(event.TopicEntityAdded, id)
	}
	return ids, nil
}

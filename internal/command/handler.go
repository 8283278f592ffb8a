package command

import (
	"fmt"
	"sort"

	"github.com/draftsmith/draftsmith/internal/geom"
)

// Handler runs one interactive command. Start is called once when the
// command activates, OnPoint for every resolved click, OnValue for
// typed input (an empty string is the confirm/finish sentinel), and
// Cancel when the user aborts; Cancel may commit salvage geometry.
//
// A handler instance lives for one activation, so per-command state
// lives in typed fields on the handler struct.
type Handler interface {
	Start(ctx *Context) Result
	OnPoint(ctx *Context, p geom.Point) Result
	OnValue(ctx *Context, text string) Result
	Cancel(ctx *Context) Result
}

// Factory builds a fresh handler instance per activation.
type Factory func() Handler

// Registry maps command names to handler factories.
type Registry struct {
	factories map[Name]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Name]Factory)}
}

// Register binds a factory to a command name. Re-registering a name
// replaces the previous factory.
func (r *Registry) Register(name Name, f Factory) {
	r.factories[name] = f
}

// New instantiates a handler for the command.
func (r *Registry) New(name Name) (Handler, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return f(), nil
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Has reports whether a handler is registered for the command.
func (r *Registry) Has(name Name) bool {
	_, ok := r.factories[name]
	return ok
}

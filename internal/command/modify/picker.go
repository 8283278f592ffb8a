package modify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/event"
	"github.com/draftsmith/draftsmith/internal/geom"
)

// entityPicker runs the hit-test selection phase a modify command
// enters when it starts with nothing selected. Clicks toggle the hit
// entity; a click into empty space (with something selected) or the
// empty confirm value ends the phase.
type entityPicker struct {
	picking bool
}

func (p *entityPicker) begin(ctx *command.Context) {
	p.picking = ctx.Selection().Len() == 0
}

// onPoint consumes the click while the phase is active. When a miss
// ends the phase the click is NOT consumed, so the caller treats it as
// its first geometric input.
func (p *entityPicker) onPoint(ctx *command.Context, pt geom.Point) (command.Result, bool) {
	if !p.picking {
		return command.Result{}, false
	}
	if id, ok := ctx.Selection().HitTest(pt); ok {
		ctx.Selection().Toggle(id)
		ctx.Publish(event.TopicSelectionChanged, ctx.Selection().IDs())
		return command.Continuef("%d selected, select more or press Enter", ctx.Selection().Len()), true
	}
	if ctx.Selection().Len() > 0 {
		p.picking = false
		return command.Result{}, false
	}
	return command.NoOp("Select entities"), true
}

// finish ends the phase on the empty confirm value. It reports whether
// the value was consumed and whether the command should abort because
// nothing was selected.
func (p *entityPicker) finish(ctx *command.Context, text string) (consumed, aborted bool) {
	if !p.picking || text != "" {
		return false, false
	}
	if ctx.Selection().Len() == 0 {
		return true, true
	}
	p.picking = false
	return true, false
}

func parseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", command.ErrBadValue, text)
	}
	return v, nil
}

func parseInt(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", command.ErrBadValue, text)
	}
	return v, nil
}

// parseFloats splits whitespace/comma separated numbers.
func parseFloats(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == ',' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

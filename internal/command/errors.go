package command

import "errors"

// Command errors.
var (
	// ErrUnknownCommand indicates no handler is registered for the name.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrDegenerate indicates geometry too degenerate to act on; the
	// step aborts without mutation.
	ErrDegenerate = errors.New("command: degenerate geometry")

	// ErrBadValue indicates typed input that does not parse for the
	// current step.
	ErrBadValue = errors.New("command: invalid value")
)

package command

import "fmt"

// Status indicates the outcome of one handler step.
type Status uint8

const (
	// StatusContinue keeps the command active, awaiting more input.
	StatusContinue Status = iota
	// StatusDone finishes the command; the session returns to the
	// terminal state.
	StatusDone
	// StatusNoOp means the input had no effect at this step.
	StatusNoOp
	// StatusAbort cancels the command without mutation, as on
	// degenerate geometry.
	StatusAbort
	// StatusError cancels the command with an error.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusDone:
		return "done"
	case StatusNoOp:
		return "no-op"
	case StatusAbort:
		return "abort"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of handling one point, value or lifecycle
// event. Prompt describes the input the command expects next and is
// surfaced by the session as the pending prompt.
type Result struct {
	Status  Status
	Err     error
	Prompt  string
	Created []uint64
}

// Continue keeps the command running with the given prompt.
func Continue(prompt string) Result {
	return Result{Status: StatusContinue, Prompt: prompt}
}

// Continuef keeps the command running with a formatted prompt.
func Continuef(format string, args ...any) Result {
	return Result{Status: StatusContinue, Prompt: fmt.Sprintf(format, args...)}
}

// Done finishes the command.
func Done() Result {
	return Result{Status: StatusDone}
}

// Donef finishes the command with a closing message in Prompt.
func Donef(format string, args ...any) Result {
	return Result{Status: StatusDone, Prompt: fmt.Sprintf(format, args...)}
}

// NoOp reports that the input had no effect, keeping the prompt.
func NoOp(prompt string) Result {
	return Result{Status: StatusNoOp, Prompt: prompt}
}

// Abort cancels the command without mutation.
func Abort() Result {
	return Result{Status: StatusAbort}
}

// Fail cancels the command with an error.
func Fail(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// Failf cancels the command with a formatted error.
func Failf(format string, args ...any) Result {
	return Result{Status: StatusError, Err: fmt.Errorf(format, args...)}
}

// WithCreated attaches the ids of entities the step created.
func (r Result) WithCreated(ids ...uint64) Result {
	r.Created = append(r.Created, ids...)
	return r
}

// Active reports whether the command remains active after this result.
func (r Result) Active() bool {
	return r.Status == StatusContinue || r.Status == StatusNoOp
}

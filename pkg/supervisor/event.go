package supervisor

import (
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes output lines from the terminal exit event.
type EventKind int

const (
	EventLine EventKind = iota
	EventExit
)

// StderrPrefix is prepended to every line read from the child's stderr.
const StderrPrefix = "[ERROR] "

// ExitCodeKilled is reported for a stopped run that has no positive exit code.
const ExitCodeKilled = 137

// Event is one item on a run's event stream. A stream carries any number of
// EventLine values followed by exactly one EventExit, then is closed.
type Event struct {
	RunID uuid.UUID
	Kind  EventKind
	Time  time.Time

	// Line is set for EventLine.
	Line string

	// ExitCode, Outcome and Err are set for EventExit. Err is non-nil only
	// when the process failed to start.
	ExitCode int
	Outcome  State
	Err      error
}

package supervisor

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned by Start when the slot is occupied.
	ErrAlreadyRunning = errors.New("a task is already running")

	// ErrLaunchFailed wraps the OS error of a process that could not start.
	ErrLaunchFailed = errors.New("launch failed")
)

// StopError reports a failure to signal the running process tree.
type StopError struct {
	PID int
	Err error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("stop pid %d: %v", e.PID, e.Err)
}

func (e *StopError) Unwrap() error { return e.Err }

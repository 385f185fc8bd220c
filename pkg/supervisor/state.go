// Package supervisor runs at most one child process at a time and streams
// its output as events.
package supervisor

// State is the lifecycle position of the supervised slot.
type State int

const (
	Idle State = iota
	Starting
	Running
	Completed
	Killed
	FailedToStart
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Killed:
		return "killed"
	case FailedToStart:
		return "failed-to-start"
	default:
		return "unknown"
	}
}

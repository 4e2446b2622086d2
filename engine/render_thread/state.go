package render_thread

import "fmt"

// State is the lifecycle stage of a RenderThread.
type State int32

const (
	// StateNotStarted is the zero value; no worker has been spawned.
	StateNotStarted State = iota
	// StateRunning means the worker is alive and no termination was requested.
	StateRunning
	// StateTerminationRequested means the control goroutine asked the worker to stop.
	StateTerminationRequested
	// StateJoined means the worker has exited and its exit was observed by AwaitTermination.
	StateJoined
)

// String returns the lowercase name of s.
//
// Returns:
//   - string: the state name
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateTerminationRequested:
		return "termination_requested"
	case StateJoined:
		return "joined"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

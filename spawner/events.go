package spawner

import (
	"os"
	"strings"
)

// EventKind discriminates lifecycle events.
type EventKind int

const (
	// EventError reports a runtime fault in the plumbing between the
	// engine and the subprocess, such as a failed stdin write. The
	// subprocess may still be alive.
	EventError EventKind = iota

	// EventExit reports subprocess termination. It is the final event
	// a Handle delivers.
	EventExit
)

// Event is a subprocess lifecycle signal.
type Event struct {
	Kind EventKind

	// Err is set for EventError.
	Err error

	// Code is the exit code for EventExit; -1 when a signal ended
	// the process.
	Code int

	// Signal is the terminating signal name for EventExit, e.g.
	// "killed". Empty when the process exited on its own.
	Signal string
}

// eventBuffSize keeps lifecycle sends from stalling the plumbing
// goroutines when the consumer is between selects.
const eventBuffSize = 8

// exitEvent derives the exit code and terminating signal from the
// process state left behind by Wait.
func exitEvent(state *os.ProcessState, waitErr error) Event {
	ev := Event{Kind: EventExit, Code: -1}
	if state == nil {
		if waitErr != nil {
			ev.Signal = waitErr.Error()
		}
		return ev
	}
	ev.Code = state.ExitCode()
	if !state.Exited() {
		// ProcessState renders signal deaths as "signal: killed".
		ev.Signal = strings.TrimPrefix(state.String(), "signal: ")
	}
	return ev
}

package shrepl

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyOpen is returned by Open on a Session that has ever
	// owned a process handle. Sessions are single-use.
	ErrAlreadyOpen = errors.New("session already open")

	// ErrNotOpen is returned by Exec when the Session has no live
	// process handle, either because Open was never called or because
	// the subprocess has exited.
	ErrNotOpen = errors.New("session not open")
)

// SpawnError wraps the underlying fault when the subprocess could not
// be started at all.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %q; %s", e.Path, e.Err.Error())
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExecError rejects a command whose cycle produced error-stream
// content. Stderr carries the guest's own message verbatim.
type ExecError struct {
	Stderr string
}

func (e *ExecError) Error() string { return e.Stderr }

// ProtocolError rejects a command whose cycle completed without the
// expected command echo, which means the framing can no longer be
// trusted. Output holds the cycle's stdout for diagnosis.
type ProtocolError struct {
	Command string
	Output  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf(
		"protocol violation; no echo of %q in output %q",
		e.Command, abbrev(e.Output))
}

// TimeoutError rejects a command whose deadline fired before its
// boundary arrived. The guest side is not interrupted.
type TimeoutError struct {
	Command string
	After   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", abbrev(e.Command), e.After)
}

// ExitError rejects every command still pending when the subprocess
// exits. Code is -1 when a signal ended the process; Signal then
// holds the signal name.
type ExitError struct {
	Code   int
	Signal string
}

func (e *ExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("process terminated by signal %q", e.Signal)
	}
	return fmt.Sprintf("process exited with code %d", e.Code)
}

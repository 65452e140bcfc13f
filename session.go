// Package shrepl hosts a single long-lived interactive shell
// subprocess and lets callers submit text commands one at a time,
// receiving each command's textual output through a one-shot Outcome.
//
// The engine builds a half-duplex framing protocol over a text
// console that was never designed to be scripted: a sentinel token is
// injected into the guest shell's prompt at spawn time, so command
// boundaries can be recognized purely from byte content. Output is an
// opaque text blob; the engine never parses the guest's scripting
// language.
package shrepl

import (
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/halfduplex/shrepl/spawner"
)

// State is the lifecycle state of a Session.
type State int32

const (
	// Unopened: freshly constructed, Open not yet called.
	Unopened State = iota
	// Spawning: Open called, OS has not yet confirmed startup.
	Spawning
	// AwaitingReady: process started, first sentinel not yet seen.
	AwaitingReady
	// Ready: sentinel observed; commands dispatch freely.
	Ready
	// Closed is terminal. A Closed Session cannot be reopened;
	// construct a new one.
	Closed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case Spawning:
		return "spawning"
	case AwaitingReady:
		return "awaiting-ready"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// SpawnFunc produces a live process handle.
// NewSession wires in spawner.Start; tests may inject a scripted fake
// via NewSessionRaw.
type SpawnFunc func() (*spawner.Handle, error)

// ExitStatus describes how the subprocess terminated.
type ExitStatus struct {
	// Code is the exit code; -1 when a signal ended the process.
	Code int
	// Signal is the terminating signal name, if any.
	Signal string
}

// Session drives one interactive shell subprocess.
//
// Commands run strictly one at a time in submission order; submitting
// while another command is in flight just queues. All commands still
// pending when the subprocess exits are rejected with an ExitError in
// FIFO order.
//
// A Session is safe for concurrent use: every state mutation happens
// on its single event-loop goroutine.
type Session struct {
	opts   Options
	spawn  SpawnFunc
	logger *log.Logger

	state    atomic.Int32
	handle   *spawner.Handle
	submitCh chan *command
	closeCh  chan chan bool
	loopDone chan struct{}

	errObservers  notifier[error]
	exitObservers notifier[ExitStatus]
}

// NewSession returns a Session in the Unopened state.
// Nothing is spawned until Open.
func NewSession(opts Options) *Session {
	var s *Session
	s = NewSessionRaw(func() (*spawner.Handle, error) {
		return spawner.Start(spawner.Spec{
			Path: s.opts.Path,
			Args: s.opts.Args,
			Dir:  s.opts.Dir,
		})
	}, opts)
	return s
}

// NewSessionRaw is NewSession with an injected spawn function, so the
// engine can be exercised against bare channels instead of a real
// subprocess.
func NewSessionRaw(spawn SpawnFunc, opts Options) *Session {
	if opts.Verbose {
		spawner.VerboseLoggingEnabled = true
	}
	return &Session{
		opts:     opts,
		spawn:    spawn,
		logger:   newLogger(opts.Verbose),
		submitCh: make(chan *command),
		closeCh:  make(chan chan bool),
		loopDone: make(chan struct{}),
	}
}

// State returns the Session's lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// IsOpen reports whether the Session owns a live process handle.
func (s *Session) IsOpen() bool {
	st := s.State()
	return st == AwaitingReady || st == Ready
}

// Open spawns the subprocess and writes the initialization payload.
//
// Open returns once the OS confirms startup; it does not wait for
// readiness (the first sentinel), so the caller can attach error and
// exit observers before any asynchronous fault surfaces. Errors:
// ErrAlreadyOpen when a live process handle already exists (or ever
// existed — a Closed Session stays closed), a SpawnError when the
// subprocess could not start, or an Options validation error. Any
// failed attempt leaves the Session Closed.
func (s *Session) Open() error {
	if !s.state.CompareAndSwap(int32(Unopened), int32(Spawning)) {
		return ErrAlreadyOpen
	}
	if err := s.opts.Validate(); err != nil {
		// Options are immutable, so retrying could never succeed;
		// tear down the same way a spawn failure does so a concurrent
		// Close is released.
		s.state.Store(int32(Closed))
		close(s.loopDone)
		return err
	}
	h, err := s.spawn()
	if err != nil {
		// A failed attempt emits no exit or error notifications;
		// this rejection is the only report.
		s.state.Store(int32(Closed))
		close(s.loopDone)
		return &SpawnError{Path: s.opts.Path, Err: err}
	}
	s.handle = h
	s.logger.Printf("spawned %q; writing init payload", s.opts.Path)
	for _, line := range s.opts.Init {
		h.Stdin <- line
	}
	s.state.Store(int32(AwaitingReady))
	go s.run(h)
	return nil
}

// Exec submits a command for execution and returns its Outcome
// without blocking. A timeout of zero means no deadline.
//
// Fails synchronously with ErrNotOpen when the Session has no live
// process handle. A timed-out command is not interrupted on the guest
// side; the engine discards the stale output cycle it eventually
// produces, so the following command's result stays clean.
func (s *Session) Exec(text string, timeout time.Duration) (*Outcome, error) {
	switch s.State() {
	case Unopened, Spawning, Closed:
		return nil, ErrNotOpen
	}
	c := &command{
		text:    strings.TrimSpace(text),
		timeout: timeout,
		outcome: newOutcome(),
	}
	select {
	case s.submitCh <- c:
		return c.outcome, nil
	case <-s.loopDone:
		return nil, ErrNotOpen
	}
}

// Close signals the subprocess and lets the event loop tear the
// Session down. Idempotent: the result reports whether a live process
// existed to signal, so the second call returns false.
//
// Pending commands are rejected with an ExitError once the exit is
// observed; observers still attached receive the exit notification.
func (s *Session) Close() bool {
	if s.State() == Unopened {
		return false
	}
	reply := make(chan bool)
	select {
	case s.closeCh <- reply:
		return <-reply
	case <-s.loopDone:
		return false
	}
}

// OnError attaches an observer for faults that are not attributable
// to any single command: runtime plumbing errors after startup, and
// stray stderr content present when the subprocess exits. Such
// notifications can arrive at any time after Open returns; with no
// observer attached they are dropped. The returned detach suppresses
// further delivery.
func (s *Session) OnError(fn func(error)) (detach func()) {
	return s.errObservers.attach(fn)
}

// OnExit attaches an observer for subprocess termination. It fires
// exactly once per Session, after all pending commands have been
// rejected. Detaching before Close suppresses delivery.
func (s *Session) OnExit(fn func(ExitStatus)) (detach func()) {
	return s.exitObservers.attach(fn)
}

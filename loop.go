package shrepl

import (
	"strings"
	"time"

	"github.com/halfduplex/shrepl/spawner"
)

// run is the Session's event loop. It is the only goroutine that
// touches the queue, the active command, the accumulators and the
// lifecycle state, so the engine needs no locking around them. Every
// outcome settles here, which is what makes settlement order equal
// submission order.
func (s *Session) run(h *spawner.Handle) {
	defer close(s.loopDone)

	var (
		queue  fifo
		active *command
		dmx    = newDemux(s.opts.Sentinel)
		// skip counts boundary cycles to discard, one per fired
		// timeout: the guest is still executing the abandoned
		// command and its output must not be attributed to the
		// command now in flight.
		skip   int
		timer  *time.Timer
		timerC <-chan time.Time
		stdout = h.Stdout
		stderr = h.Stderr
	)

	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}

	dispatch := func(c *command) {
		active = c
		dmx.reset()
		s.logger.Printf("dispatching %q", abbrev(c.text))
		h.Stdin <- c.text
		if c.timeout > 0 {
			timer = time.NewTimer(c.timeout)
			timerC = timer.C
		}
	}

	// advance pops the next queued command into flight, or leaves the
	// session idle awaiting the next Exec.
	advance := func() {
		disarm()
		active = nil
		dmx.reset()
		if c := queue.pop(); c != nil {
			dispatch(c)
		}
	}

	// settle resolves or rejects the active command from the
	// completed cycle. Precedence: stderr content, then echo
	// validation, then the stdout payload.
	settle := func(c *command) {
		if errText := dmx.stderrText(); errText != "" {
			s.logger.Printf("command %q produced stderr: %q",
				abbrev(c.text), abbrev(errText))
			c.outcome.reject(&ExecError{Stderr: errText})
			return
		}
		out := strings.TrimLeft(dmx.text(), " \t\r\n")
		if !strings.HasPrefix(out, c.text) {
			s.logger.Printf("echo mismatch for %q", abbrev(c.text))
			c.outcome.reject(&ProtocolError{Command: c.text, Output: out})
			return
		}
		c.outcome.resolve(strings.TrimSpace(out[len(c.text):]))
	}

	// sweepStderr pulls in stderr chunks already buffered, so that
	// error output emitted before the boundary is attributed to the
	// cycle being settled rather than the next one.
	sweepStderr := func() {
		for {
			select {
			case chunk, ok := <-stderr:
				if !ok {
					stderr = nil
					return
				}
				dmx.stderr(chunk)
			default:
				return
			}
		}
	}

	// reportStray surfaces stderr content that has no command to be
	// attributed to. Called wherever the accumulators are about to be
	// reset with nothing in flight, mirroring the exit path.
	reportStray := func() {
		if errText := dmx.stderrText(); errText != "" {
			s.logger.Printf("stray stderr with nothing in flight: %q",
				abbrev(errText))
			s.errObservers.notify(&ExecError{Stderr: errText})
		}
	}

	onBoundary := func() {
		switch {
		case s.State() == AwaitingReady:
			// The readiness handshake. This boundary resolves no
			// caller-visible command; it only marks the shell idle
			// and pulls the first queued command into flight.
			s.logger.Printf("shell is ready")
			s.state.Store(int32(Ready))
			advance()
		case active != nil:
			settle(active)
			advance()
		default:
			// A stray prompt with nothing in flight.
			reportStray()
			dmx.reset()
		}
	}

	for {
		select {
		case c := <-s.submitCh:
			s.logger.Printf("queued %q (%d pending)", abbrev(c.text), queue.len())
			queue.push(c)
			if s.State() == Ready && active == nil {
				sweepStderr()
				reportStray()
				dispatch(queue.pop())
			}

		case chunk, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			dmx.stdout(chunk)
			for skip > 0 && dmx.discardThrough() {
				skip--
				s.logger.Printf("discarded stale cycle; %d left", skip)
			}
			if skip == 0 && dmx.atBoundary() {
				sweepStderr()
				onBoundary()
			}

		case chunk, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			dmx.stderr(chunk)

		case <-timerC:
			disarm()
			c := active
			s.logger.Printf("command %q timed out after %s",
				abbrev(c.text), c.timeout)
			c.outcome.reject(&TimeoutError{Command: c.text, After: c.timeout})
			skip++
			advance()

		case ev := <-h.Events:
			switch ev.Kind {
			case spawner.EventError:
				s.logger.Printf("runtime error: %v", ev.Err)
				s.errObservers.notify(ev.Err)
			case spawner.EventExit:
				s.shutdown(h, &queue, active, dmx, ev)
				return
			}

		case reply := <-s.closeCh:
			s.logger.Printf("close requested")
			reply <- h.Kill()
			// The exit event arrives next and finishes the loop.
		}
	}
}

// shutdown drains the session after subprocess exit: stray stderr
// first, then FIFO rejections, then the exit notification, exactly
// once.
func (s *Session) shutdown(h *spawner.Handle, queue *fifo, active *command, dmx *demux, ev spawner.Event) {
	s.state.Store(int32(Closed))
	s.logger.Printf("shutting down; code=%d signal=%q (%d pending)",
		ev.Code, ev.Signal, queue.len())
	// No further dispatch can happen; releasing the stdin channel lets
	// the input feeder finish.
	close(h.Stdin)
	// Both output channels close before the exit event is delivered;
	// sweep up whatever is still buffered so trailing stderr can be
	// surfaced below.
	for range h.Stdout {
	}
	for chunk := range h.Stderr {
		dmx.stderr(chunk)
	}
	if errText := dmx.stderrText(); errText != "" && active == nil {
		s.errObservers.notify(&ExecError{Stderr: errText})
	}
	exitErr := &ExitError{Code: ev.Code, Signal: ev.Signal}
	if active != nil {
		active.outcome.reject(exitErr)
	}
	for _, c := range queue.drain() {
		c.outcome.reject(exitErr)
	}
	s.exitObservers.notify(ExitStatus{Code: ev.Code, Signal: ev.Signal})
}

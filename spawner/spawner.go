// Package spawner starts a shell subprocess and exposes it as a set
// of channels: a line-oriented stdin channel, raw chunk channels for
// stdout and stderr, and a lifecycle event channel.
//
// The package knows nothing about framing or sentinels; it only moves
// bytes and reports lifecycle signals. The session engine in the
// parent package builds the half-duplex command protocol on top.
package spawner

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Start launches the subprocess described by spec, wires up its
// standard streams, and returns the Handle owning it.
func Start(spec Spec) (*Handle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdIn for %q; %w", spec.Path, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdOut for %q; %w", spec.Path, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdErr for %q; %w", spec.Path, err)
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("trying to start %q; %w", spec.Path, err)
	}
	logger.Printf("started %q pid=%d", spec.Path, cmd.Process.Pid)

	chIn := make(chan string, spec.BuffSizeIn)
	chOut := make(chan []byte, spec.BuffSizeOut)
	chErr := make(chan []byte, spec.BuffSizeOut)
	chEvents := make(chan Event, eventBuffSize)

	// readers assures cmd.Wait isn't called until both output pipes
	// have been fully consumed, as os/exec requires.
	var readers sync.WaitGroup
	readers.Add(2)
	go readChunks(&readers, chOut, "stdOut", stdout, spec.ChunkSize)
	go readChunks(&readers, chErr, "stdErr", stderr, spec.ChunkSize)

	go feedInput(chIn, stdin, chEvents)

	go func() {
		readers.Wait()
		waitErr := cmd.Wait()
		ev := exitEvent(cmd.ProcessState, waitErr)
		logger.Printf("process exited; code=%d signal=%q", ev.Code, ev.Signal)
		chEvents <- ev
	}()

	var killed atomic.Bool
	kill := func() bool {
		if !killed.CompareAndSwap(false, true) {
			return false
		}
		logger.Printf("killing pid=%d", cmd.Process.Pid)
		return cmd.Process.Kill() == nil
	}

	return &Handle{
		Stdin:  chIn,
		Stdout: chOut,
		Stderr: chErr,
		Events: chEvents,
		Kill:   kill,
	}, nil
}

// feedInput forwards command lines from the channel to the real
// stdin, assuring newline termination. Closing the channel closes
// stdin, which is the graceful EOF path for most shells.
func feedInput(ch <-chan string, stdin io.WriteCloser, events chan<- Event) {
	for line := range ch {
		logger.Printf("stdIn; issuing %q", abbrev(line))
		if _, err := stdin.Write(terminate(line)); err != nil {
			logger.Printf("stdIn; write failed: %s", err.Error())
			trySend(events, Event{
				Kind: EventError,
				Err:  fmt.Errorf("writing to stdin; %w", err),
			})
			_ = stdin.Close()
			return
		}
	}
	logger.Printf("stdIn; channel closed, sending EOF")
	if err := stdin.Close(); err != nil {
		trySend(events, Event{
			Kind: EventError,
			Err:  fmt.Errorf("closing stdin; %w", err),
		})
	}
}

// readChunks moves raw bytes from a pipe to a channel in chunks with
// arbitrary split points, closing the channel at EOF.
func readChunks(
	wg *sync.WaitGroup,
	ch chan<- []byte,
	name string,
	r io.Reader,
	size int,
) {
	defer wg.Done()
	defer close(ch)
	buf := make([]byte, size)
	count := 0
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count++
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			logger.Printf("%s; chunk #%d (%d bytes): %q",
				name, count, n, abbrev(string(chunk)))
			ch <- chunk
		}
		if err != nil {
			logger.Printf("%s; pipe done after %d chunks", name, count)
			return
		}
	}
}

// trySend is a non-blocking event send, so the plumbing goroutines
// never stall on a consumer that has already moved on.
func trySend(ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	default:
	}
}

const newLineChar = '\n'

// terminate assures the command line ends with exactly one newline.
func terminate(line string) []byte {
	c := []byte(line)
	if len(c) > 0 && c[len(c)-1] == newLineChar {
		c = c[:len(c)-1]
	}
	return append(c, newLineChar)
}

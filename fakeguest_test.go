package shrepl_test

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/halfduplex/shrepl/spawner"
)

// fakeGuest scripts a winkle-like subprocess behind bare channels, so
// the engine can be exercised hermetically. Output is delivered in
// deliberately small chunks so sentinel boundaries land on arbitrary
// split points.
type fakeGuest struct {
	stdin  chan string
	stdout chan []byte
	stderr chan []byte
	events chan spawner.Event

	chunkSize int
	echo      bool

	killed   chan struct{}
	killOnce sync.Once
}

func newFakeGuest() *fakeGuest {
	return &fakeGuest{
		stdin:     make(chan string, 200),
		stdout:    make(chan []byte, 4000),
		stderr:    make(chan []byte, 4000),
		events:    make(chan spawner.Event, 8),
		chunkSize: 7,
		echo:      true,
		killed:    make(chan struct{}),
	}
}

// spawn is a shrepl.SpawnFunc.
func (g *fakeGuest) spawn() (*spawner.Handle, error) {
	go g.serve()
	return &spawner.Handle{
		Stdin:  g.stdin,
		Stdout: g.stdout,
		Stderr: g.stderr,
		Events: g.events,
		Kill:   g.kill,
	}, nil
}

func (g *fakeGuest) kill() bool {
	ok := false
	g.killOnce.Do(func() {
		ok = true
		close(g.killed)
	})
	return ok
}

// dieNoisily simulates a guest that writes to stderr with nothing in
// flight and then drops dead.
func (g *fakeGuest) dieNoisily(text string) {
	g.writeErr(text + "\n")
	g.kill()
}

func (g *fakeGuest) serve() {
	prompt := ""
	stdin := g.stdin
	for {
		select {
		case <-g.killed:
			g.exit(-1, "killed")
			return
		case line, ok := <-stdin:
			if !ok {
				stdin = nil
				continue
			}
			line = strings.TrimSpace(line)
			if g.echo {
				g.writeOut(line + "\n")
			}
			if done := g.handle(line, &prompt); done {
				return
			}
			if prompt != "" {
				g.writeOut(prompt)
			}
		}
	}
}

func (g *fakeGuest) handle(line string, prompt *string) (done bool) {
	switch {
	case line == "":
	case strings.HasPrefix(line, "prompt set "):
		*prompt = strings.TrimPrefix(line, "prompt set ")
	case line == "emit":
	case strings.HasPrefix(line, "emit "):
		g.writeOut(strings.TrimPrefix(line, "emit ") + "\n")
	case strings.HasPrefix(line, "json "):
		b, _ := json.Marshal(strings.TrimPrefix(line, "json "))
		g.writeOut(string(b) + "\n")
	case strings.HasPrefix(line, "complain "):
		g.writeErr(strings.TrimPrefix(line, "complain ") + "\n")
	case strings.HasPrefix(line, "both "):
		g.writeOut("stdout half\n")
		g.writeErr(strings.TrimPrefix(line, "both ") + "\n")
	case strings.HasPrefix(line, "sleep "):
		d, err := time.ParseDuration(strings.TrimPrefix(line, "sleep "))
		if err != nil {
			g.writeErr(err.Error() + "\n")
			return false
		}
		select {
		case <-time.After(d):
		case <-g.killed:
			g.exit(-1, "killed")
			return true
		}
	case line == "crash":
		g.exit(2, "")
		return true
	case line == "quit":
		g.exit(0, "")
		return true
	default:
		if n, ok := evalSimple(line); ok {
			g.writeOut(fmt.Sprintf("%d\n", n))
			return false
		}
		g.writeErr(fmt.Sprintf("unrecognized command: %q\n", line))
	}
	return false
}

// evalSimple handles "A op B" with integer operands.
func evalSimple(line string) (int, bool) {
	f := strings.Fields(line)
	if len(f) != 3 {
		return 0, false
	}
	a, errA := strconv.Atoi(f[0])
	b, errB := strconv.Atoi(f[2])
	if errA != nil || errB != nil {
		return 0, false
	}
	switch f[1] {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	}
	return 0, false
}

func (g *fakeGuest) writeOut(s string) { writeChunked(g.stdout, s, g.chunkSize) }
func (g *fakeGuest) writeErr(s string) { writeChunked(g.stderr, s, g.chunkSize) }

func writeChunked(ch chan<- []byte, s string, size int) {
	b := []byte(s)
	for len(b) > 0 {
		n := size
		if n > len(b) {
			n = len(b)
		}
		ch <- append([]byte(nil), b[:n]...)
		b = b[n:]
	}
}

func (g *fakeGuest) exit(code int, signal string) {
	close(g.stdout)
	close(g.stderr)
	g.events <- spawner.Event{Kind: spawner.EventExit, Code: code, Signal: signal}
}

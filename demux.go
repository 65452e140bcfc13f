package shrepl

import (
	"bytes"
	"strings"
)

// cutset trimmed around the sentinel when checking for a boundary.
// Guest prompts sit at the start of a line; some hosts pad them with
// a trailing newline or space.
const boundaryCutset = " \t\r\n"

// demux accumulates raw output chunks for the current cycle and
// detects the sentinel boundary.
//
// Chunk split points are arbitrary; a sentinel may span chunks or
// share a chunk with the next cycle's first bytes, so every check
// runs against the whole accumulator, never a single chunk.
type demux struct {
	sentinel []byte
	out      bytes.Buffer
	errs     bytes.Buffer
}

func newDemux(s Sentinel) *demux {
	return &demux{sentinel: []byte(s)}
}

// reset clears both accumulators for a new cycle.
func (d *demux) reset() {
	d.out.Reset()
	d.errs.Reset()
}

func (d *demux) stdout(chunk []byte) { d.out.Write(chunk) }
func (d *demux) stderr(chunk []byte) { d.errs.Write(chunk) }

// atBoundary reports whether the accumulated stdout currently ends
// with the sentinel, i.e. the guest shell has printed its prompt and
// is idle awaiting input.
//
// The sentinel must sit at the start of a line: guests echo submitted
// input, so a mid-line occurrence (the echo of the very line that
// configured the prompt, say) is command output, not a prompt.
func (d *demux) atBoundary() bool {
	tail := bytes.TrimRight(d.out.Bytes(), boundaryCutset)
	if !bytes.HasSuffix(tail, d.sentinel) {
		return false
	}
	head := tail[:len(tail)-len(d.sentinel)]
	return len(head) == 0 || head[len(head)-1] == '\n'
}

// text returns the cycle's accumulated stdout with the trailing
// sentinel stripped. Only meaningful when atBoundary is true.
func (d *demux) text() string {
	tail := bytes.TrimRight(d.out.Bytes(), boundaryCutset)
	return string(tail[:len(tail)-len(d.sentinel)])
}

// stderrText returns the cycle's accumulated stderr, trimmed.
// Non-emptiness at resolution time is the error signal; stderr has
// no boundary concept of its own.
func (d *demux) stderrText() string {
	return strings.TrimSpace(d.errs.String())
}

// discardThrough drops everything up to and including the first
// sentinel occurrence, keeping any bytes that follow it as the start
// of the next cycle. It reports whether a sentinel was found.
//
// This reconciles a timed-out command: the guest was never
// interrupted, so its stale output and prompt still arrive, possibly
// coalesced with the next command's echo.
func (d *demux) discardThrough() bool {
	b := d.out.Bytes()
	i := lineStartIndex(b, d.sentinel)
	if i < 0 {
		return false
	}
	rest := append([]byte(nil), b[i+len(d.sentinel):]...)
	d.out.Reset()
	d.out.Write(bytes.TrimLeft(rest, "\r\n"))
	d.errs.Reset()
	return true
}

// lineStartIndex returns the index of the first occurrence of pat
// that sits at the start of a line, or -1.
func lineStartIndex(b, pat []byte) int {
	off := 0
	for {
		i := bytes.Index(b[off:], pat)
		if i < 0 {
			return -1
		}
		i += off
		if i == 0 || b[i-1] == '\n' {
			return i
		}
		off = i + 1
	}
}

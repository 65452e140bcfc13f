package shrepl

import (
	"context"
	"sync"
)

// Outcome is the one-shot result of a submitted command.
// It settles exactly once: either resolved with the command's output
// text, or rejected with an error from the taxonomy in errors.go.
type Outcome struct {
	once sync.Once
	done chan struct{}
	out  string
	err  error
}

func newOutcome() *Outcome {
	return &Outcome{done: make(chan struct{})}
}

func (o *Outcome) resolve(out string) {
	o.once.Do(func() {
		o.out = out
		close(o.done)
	})
}

func (o *Outcome) reject(err error) {
	o.once.Do(func() {
		o.err = err
		close(o.done)
	})
}

// Done is closed once the Outcome has settled.
// Use it to multiplex over several pending commands.
func (o *Outcome) Done() <-chan struct{} { return o.done }

// Wait blocks until the Outcome settles or ctx expires.
func (o *Outcome) Wait(ctx context.Context) (string, error) {
	select {
	case <-o.done:
		return o.out, o.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

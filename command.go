package shrepl

import "time"

// command is one queued request against the guest shell.
// The text is trimmed on submission; a terminating newline is added
// by the spawner at transmission time.
type command struct {
	text    string
	timeout time.Duration
	outcome *Outcome
}

// fifo is the pending-command queue: strict submission order,
// unbounded. A command leaves the queue exactly once, at the moment
// it becomes the active command.
type fifo struct {
	items []*command
}

func (q *fifo) push(c *command) {
	q.items = append(q.items, c)
}

func (q *fifo) pop() *command {
	if len(q.items) == 0 {
		return nil
	}
	c := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return c
}

// drain empties the queue, returning the commands in FIFO order.
func (q *fifo) drain() []*command {
	out := q.items
	q.items = nil
	return out
}

func (q *fifo) len() int { return len(q.items) }

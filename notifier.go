package shrepl

import "sync"

// notifier is an explicit observer list with add/remove semantics.
// An observer detached before Close is never called again, so a
// graceful shutdown need not produce a spurious notification.
type notifier[T any] struct {
	mu   sync.Mutex
	next int
	obs  map[int]func(T)
}

// attach registers fn and returns its detach function.
// Detach is idempotent.
func (n *notifier[T]) attach(fn func(T)) (detach func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.obs == nil {
		n.obs = make(map[int]func(T))
	}
	id := n.next
	n.next++
	n.obs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.obs, id)
	}
}

// notify calls every attached observer with v. With no observers
// attached the notification is dropped; that is the caller's
// responsibility to avoid, not the engine's.
func (n *notifier[T]) notify(v T) {
	n.mu.Lock()
	fns := make([]func(T), 0, len(n.obs))
	for _, fn := range n.obs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Package mailbox implements the unbounded ordered queue that carries
// replies and pub/sub events off of a connection.
package mailbox

import "sync"

// Mailbox is an unbounded FIFO queue of T. Close enqueues a poison pill
// at its current position in the queue, so everything sent before Close
// is still delivered, in order, before the consumer sees the close
// signal. Sends after Close are no-ops, which lets multiple producers
// (e.g. a connection's pubsub pump forwarding into the writer mailbox)
// race harmlessly against teardown.
type Mailbox[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []entry[T]
	poisoned bool
}

type entry[T any] struct {
	value T
	close bool
}

// New returns an empty, open mailbox.
func New[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Send enqueues v, returning false if the mailbox was already closed (a
// no-op in that case). Callers that need to know about a dead receiver
// check this return value.
func (m *Mailbox[T]) Send(v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poisoned {
		return false
	}
	m.queue = append(m.queue, entry[T]{value: v})
	m.cond.Signal()
	return true
}

// Close enqueues the poison pill. Idempotent: only the first call has an
// effect.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poisoned {
		return
	}
	m.poisoned = true
	m.queue = append(m.queue, entry[T]{close: true})
	m.cond.Signal()
}

// Recv blocks until a value is available. ok is false when the dequeued
// entry is the poison pill; the consumer must stop after that.
func (m *Mailbox[T]) Recv() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.queue) == 0 {
		m.cond.Wait()
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	if next.close {
		return v, false
	}
	return next.value, true
}

package store

import (
	"sync"
	"time"
)

// blockingRegistry coordinates commands that cannot complete
// immediately: the command registers a waiter here while the store
// guard is still held, and is later signaled by whichever connection's
// Push makes data appear, or by its own timeout.
//
// It has its own mutex, independent of Store.mu, so that Push (called
// with the store guard held) can call wake without re-entering Store's
// own lock.
type blockingRegistry struct {
	mu    sync.Mutex
	byKey map[string][]*waiterEntry
}

type waiterEntry struct {
	keys   []string
	result chan bool
	done   bool
}

func newBlockingRegistry() *blockingRegistry {
	return &blockingRegistry{byKey: make(map[string][]*waiterEntry)}
}

// Block registers a waiter on keys (in priority order) and returns the
// single-shot channel the connection worker blocks on: true means data
// appeared and the command should be retried, false means the wait
// timed out. timeout <= 0 waits forever.
func (l *Locked) Block(keys []string, timeout time.Duration) <-chan bool {
	b := l.s.blocking
	w := &waiterEntry{keys: keys, result: make(chan bool, 1)}

	b.mu.Lock()
	for _, k := range keys {
		b.byKey[k] = append(b.byKey[k], w)
	}
	b.mu.Unlock()

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			b.mu.Lock()
			if w.done {
				b.mu.Unlock()
				return
			}
			w.done = true
			b.removeLocked(w)
			b.mu.Unlock()
			w.result <- false
		})
	}

	return w.result
}

// wake signals the longest-waiting waiter registered on key, if any.
// Called from Push while the store guard is held by the pusher.
func (b *blockingRegistry) wake(key string) {
	b.mu.Lock()
	list := b.byKey[key]
	if len(list) == 0 {
		b.mu.Unlock()
		return
	}
	w := list[0]
	w.done = true
	b.removeLocked(w)
	b.mu.Unlock()

	w.result <- true
}

// removeLocked drops w from every key it watches. Callers must hold
// b.mu.
func (b *blockingRegistry) removeLocked(w *waiterEntry) {
	for _, k := range w.keys {
		list := b.byKey[k]
		for i, e := range list {
			if e == w {
				b.byKey[k] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(b.byKey[k]) == 0 {
			delete(b.byKey, k)
		}
	}
}

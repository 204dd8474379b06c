// Package store is the in-memory data engine behind the network layer.
//
// The whole store is guarded by one mutex; only one connection holds
// the guard at a time. Acquire/Release model that guard explicitly so
// the connection worker can show, in its own code, the exact point
// where the lock is held and the exact point where it is dropped
// before a suspension.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/faizanhussain2310/respd/internal/pubsub"
)

// ErrPoisoned is returned by Acquire once a previous holder panicked
// while holding the guard.
var ErrPoisoned = errors.New("store: lock poisoned")

// Store holds every database plus the shared pub/sub registry and
// blocking-waiter bookkeeping. One Store is created per server and
// shared by every connection.
type Store struct {
	mu       sync.Mutex
	poisoned bool

	dbs []database

	PubSub *pubsub.Registry

	blocking *blockingRegistry
}

type database struct {
	values map[string]value
}

type valueKind int

const (
	kindString valueKind = iota
	kindList
)

type value struct {
	kind   valueKind
	str    string
	list   []string
	expiry time.Time // zero means no expiry
}

// New creates a Store with numDBs selectable databases.
func New(numDBs int) *Store {
	if numDBs <= 0 {
		numDBs = 16
	}
	dbs := make([]database, numDBs)
	for i := range dbs {
		dbs[i] = database{values: make(map[string]value)}
	}
	return &Store{
		dbs:      dbs,
		PubSub:   pubsub.NewRegistry(),
		blocking: newBlockingRegistry(),
	}
}

// NumDBs reports how many databases are selectable.
func (s *Store) NumDBs() int {
	return len(s.dbs)
}

// Locked is the guard obtained from Acquire. All data operations are
// methods on Locked (not Store) so that holding one is a precondition
// visible in every call site's type.
type Locked struct {
	s        *Store
	released bool
}

// Acquire blocks until the store's mutex is free and returns a guard.
// Acquire fails only if a previous holder poisoned the store by
// panicking without releasing cleanly.
func (s *Store) Acquire() (*Locked, error) {
	s.mu.Lock()
	if s.poisoned {
		s.mu.Unlock()
		return nil, ErrPoisoned
	}
	return &Locked{s: s}, nil
}

// Release drops the guard. Safe to call at most meaningfully once;
// subsequent calls are no-ops so deferred-release-after-explicit-release
// patterns don't double-unlock.
func (l *Locked) Release() {
	if l.released {
		return
	}
	l.released = true
	l.s.mu.Unlock()
}

// PubSub returns the store's shared pub/sub registry.
func (l *Locked) PubSub() *pubsub.Registry {
	return l.s.PubSub
}

// NumDBs reports how many databases are selectable.
func (l *Locked) NumDBs() int {
	return l.s.NumDBs()
}

// Poison marks the store permanently unusable. Call this from a
// recovered panic before releasing, so other connections never acquire
// a store left in a possibly-inconsistent state.
func (l *Locked) Poison() {
	l.s.poisoned = true
}

// Package pubsub is the store's publish/subscribe notification side.
// It owns the channel-to-subscribers and pattern-to-subscribers index;
// it never touches a socket directly. Publish only enqueues onto each
// subscriber's Sink, which is a connection's pub/sub mailbox.
package pubsub

import (
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Sink receives pub/sub events for one subscriber. A *mailbox.Mailbox[Event]
// satisfies this directly.
type Sink interface {
	Send(Event) bool
}

// Registry is the shared pub/sub notification hub, one per Store.
type Registry struct {
	mu sync.RWMutex

	channels map[string]map[uuid.UUID]Sink
	patterns map[string]map[uuid.UUID]Sink

	trie     *patternTrie
	compiled map[string]*regexp.Regexp

	introspect singleflight.Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[uuid.UUID]Sink),
		patterns: make(map[string]map[uuid.UUID]Sink),
		trie:     newPatternTrie(),
		compiled: make(map[string]*regexp.Regexp),
	}
}

// Subscribe registers sink under id for each channel, returning the
// channels actually subscribed in call order, duplicates included, so
// each confirmation can be its own reply frame.
func (r *Registry) Subscribe(id uuid.UUID, sink Sink, channels ...string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribed := make([]string, 0, len(channels))
	for _, ch := range channels {
		if r.channels[ch] == nil {
			r.channels[ch] = make(map[uuid.UUID]Sink)
		}
		r.channels[ch][id] = sink
		subscribed = append(subscribed, ch)
	}
	return subscribed
}

// Unsubscribe removes id from the given channels. The connection tracks
// its own subscription map and passes the exact list back in.
func (r *Registry) Unsubscribe(id uuid.UUID, channels ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range channels {
		subs := r.channels[ch]
		if subs == nil {
			continue
		}
		delete(subs, id)
		if len(subs) == 0 {
			delete(r.channels, ch)
		}
	}
}

// PSubscribe registers sink under id for each glob pattern.
func (r *Registry) PSubscribe(id uuid.UUID, sink Sink, patterns ...string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribed := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if r.patterns[p] == nil {
			r.patterns[p] = make(map[uuid.UUID]Sink)
			r.trie.insert(p)
			r.compiled[p] = compileGlob(p)
		}
		r.patterns[p][id] = sink
		subscribed = append(subscribed, p)
	}
	return subscribed
}

// PUnsubscribe removes id from the given patterns.
func (r *Registry) PUnsubscribe(id uuid.UUID, patterns ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range patterns {
		subs := r.patterns[p]
		if subs == nil {
			continue
		}
		delete(subs, id)
		if len(subs) == 0 {
			delete(r.patterns, p)
			r.trie.remove(p)
			delete(r.compiled, p)
		}
	}
}

// RemoveSubscriber drops id from every channel and pattern it is
// subscribed to. Called once, on connection teardown.
func (r *Registry) RemoveSubscriber(id uuid.UUID, channels, patterns []string) {
	r.Unsubscribe(id, channels...)
	r.PUnsubscribe(id, patterns...)
}

// Publish delivers payload to every subscriber of channel (exact match)
// and every pattern subscriber whose glob matches channel. It returns
// the number of sinks the event was enqueued to. Publish never blocks:
// enqueuing onto a subscriber's mailbox is always non-blocking.
func (r *Registry) Publish(channel, payload string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sink := range r.channels[channel] {
		if sink.Send(Event{Kind: KindMessage, Channel: channel, Payload: payload}) {
			count++
		}
	}

	for _, pattern := range r.trie.candidates(channel) {
		sinks, ok := r.patterns[pattern]
		if !ok {
			continue
		}
		re := r.compiled[pattern]
		if re == nil || !re.MatchString(channel) {
			continue
		}
		for _, sink := range sinks {
			if sink.Send(Event{Kind: KindPMessage, Channel: channel, Pattern: pattern, Payload: payload}) {
				count++
			}
		}
	}
	return count
}

// NumSub reports subscriber counts per requested channel.
func (r *Registry) NumSub(channels ...string) map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(channels))
	for _, ch := range channels {
		out[ch] = len(r.channels[ch])
	}
	return out
}

// NumPat returns the number of distinct patterns with at least one
// subscriber. Concurrent callers (e.g. several monitoring clients
// polling at once) collapse onto a single walk via singleflight.
func (r *Registry) NumPat() int {
	v, _, _ := r.introspect.Do("numpat", func() (interface{}, error) {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return len(r.patterns), nil
	})
	return v.(int)
}

// Channels returns active channel names, optionally filtered by a glob
// pattern (empty pattern matches everything).
func (r *Registry) Channels(pattern string) []string {
	key := "channels:" + pattern
	v, _, _ := r.introspect.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		defer r.mu.RUnlock()

		var re *regexp.Regexp
		if pattern != "" {
			re = compileGlob(pattern)
		}

		out := make([]string, 0, len(r.channels))
		for ch := range r.channels {
			if re == nil || re.MatchString(ch) {
				out = append(out, ch)
			}
		}
		return out, nil
	})
	return v.([]string)
}

func compileGlob(pattern string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)
	escaped = strings.ReplaceAll(escaped, `\?`, `.`)
	re, err := regexp.Compile("^" + escaped + "$")
	if err != nil {
		return nil
	}
	return re
}

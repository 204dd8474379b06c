package store

import "time"

// Set stores a string value in db, optionally expiring after ttl
// (ttl <= 0 means no expiry).
func (l *Locked) Set(db int, key, val string, ttl time.Duration) {
	v := value{kind: kindString, str: val}
	if ttl > 0 {
		v.expiry = time.Now().Add(ttl)
	}
	l.s.dbs[db].values[key] = v
}

// Get returns the string at key, or ok=false if absent, expired, or of
// the wrong type.
func (l *Locked) Get(db int, key string) (string, bool) {
	v, ok := l.lookup(db, key)
	if !ok || v.kind != kindString {
		return "", false
	}
	return v.str, true
}

// Del removes keys, returning the number actually present.
func (l *Locked) Del(db int, keys ...string) int {
	n := 0
	for _, k := range keys {
		if _, ok := l.lookup(db, k); ok {
			delete(l.s.dbs[db].values, k)
			n++
		}
	}
	return n
}

// Exists counts how many of keys are present.
func (l *Locked) Exists(db int, keys ...string) int {
	n := 0
	for _, k := range keys {
		if _, ok := l.lookup(db, k); ok {
			n++
		}
	}
	return n
}

// lookup fetches a value, transparently expiring it if its TTL has
// passed.
func (l *Locked) lookup(db int, key string) (value, bool) {
	v, ok := l.s.dbs[db].values[key]
	if !ok {
		return value{}, false
	}
	if !v.expiry.IsZero() && time.Now().After(v.expiry) {
		delete(l.s.dbs[db].values, key)
		return value{}, false
	}
	return v, true
}

package pubsub

import (
	"testing"

	"github.com/google/uuid"
)

// chanSink collects delivered events for assertions.
type chanSink struct {
	events []Event
}

func (c *chanSink) Send(e Event) bool {
	c.events = append(c.events, e)
	return true
}

func TestPublishExactChannel(t *testing.T) {
	r := NewRegistry()
	a, b := &chanSink{}, &chanSink{}
	idA, idB := uuid.New(), uuid.New()

	r.Subscribe(idA, a, "ch")
	r.Subscribe(idB, b, "ch")

	if n := r.Publish("ch", "hello"); n != 2 {
		t.Fatalf("Publish = %d, want 2", n)
	}
	for name, sink := range map[string]*chanSink{"a": a, "b": b} {
		if len(sink.events) != 1 {
			t.Fatalf("%s received %d events, want 1", name, len(sink.events))
		}
		e := sink.events[0]
		if e.Kind != KindMessage || e.Channel != "ch" || e.Payload != "hello" {
			t.Errorf("%s event = %+v", name, e)
		}
	}

	if n := r.Publish("other", "x"); n != 0 {
		t.Errorf("Publish to unsubscribed channel = %d, want 0", n)
	}
}

func TestPublishPattern(t *testing.T) {
	r := NewRegistry()
	sink := &chanSink{}
	id := uuid.New()

	r.PSubscribe(id, sink, "news.*")

	if n := r.Publish("news.sports", "goal"); n != 1 {
		t.Fatalf("Publish = %d, want 1", n)
	}
	e := sink.events[0]
	if e.Kind != KindPMessage || e.Pattern != "news.*" || e.Channel != "news.sports" || e.Payload != "goal" {
		t.Errorf("event = %+v", e)
	}

	if n := r.Publish("weather.today", "rain"); n != 0 {
		t.Errorf("non-matching publish = %d, want 0", n)
	}
}

func TestPatternGlobForms(t *testing.T) {
	tests := []struct {
		pattern string
		channel string
		match   bool
	}{
		{"news.*", "news.sports", true},
		{"news.*", "news.", true},
		{"news.*", "new", false},
		{"user.?", "user.a", true},
		{"user.?", "user.ab", false},
		{"*", "anything", true},
		{"exact", "exact", true},
		{"exact", "exact2", false},
	}

	for _, tt := range tests {
		r := NewRegistry()
		sink := &chanSink{}
		r.PSubscribe(uuid.New(), sink, tt.pattern)
		n := r.Publish(tt.channel, "x")
		if got := n == 1; got != tt.match {
			t.Errorf("pattern %q channel %q: match = %v, want %v", tt.pattern, tt.channel, got, tt.match)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	r := NewRegistry()
	sink := &chanSink{}
	id := uuid.New()

	r.Subscribe(id, sink, "ch")
	r.Unsubscribe(id, "ch")

	if n := r.Publish("ch", "x"); n != 0 {
		t.Fatalf("Publish after unsubscribe = %d, want 0", n)
	}
}

func TestRemoveSubscriber(t *testing.T) {
	r := NewRegistry()
	sink := &chanSink{}
	id := uuid.New()

	r.Subscribe(id, sink, "ch1", "ch2")
	r.PSubscribe(id, sink, "p.*")

	r.RemoveSubscriber(id, []string{"ch1", "ch2"}, []string{"p.*"})

	if n := r.Publish("ch1", "x") + r.Publish("ch2", "x") + r.Publish("p.q", "x"); n != 0 {
		t.Fatalf("deliveries after RemoveSubscriber = %d, want 0", n)
	}
	if n := r.NumPat(); n != 0 {
		t.Errorf("NumPat = %d, want 0", n)
	}
}

func TestIntrospection(t *testing.T) {
	r := NewRegistry()
	sink := &chanSink{}
	idA, idB := uuid.New(), uuid.New()

	r.Subscribe(idA, sink, "ch1")
	r.Subscribe(idB, sink, "ch1")
	r.Subscribe(idA, sink, "ch2")
	r.PSubscribe(idA, sink, "p.*")

	counts := r.NumSub("ch1", "ch2", "ch3")
	if counts["ch1"] != 2 || counts["ch2"] != 1 || counts["ch3"] != 0 {
		t.Errorf("NumSub = %v", counts)
	}

	if n := r.NumPat(); n != 1 {
		t.Errorf("NumPat = %d, want 1", n)
	}

	all := r.Channels("")
	if len(all) != 2 {
		t.Errorf("Channels(\"\") = %q, want 2 entries", all)
	}
	filtered := r.Channels("ch1")
	if len(filtered) != 1 || filtered[0] != "ch1" {
		t.Errorf("Channels(ch1) = %q", filtered)
	}
}

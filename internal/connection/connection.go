// Package connection implements the per-client state machine: a
// reader, a writer, and a pub/sub pump sharing one socket, plus the
// handoff that lets blocking commands wait without holding the store.
package connection

import (
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/faizanhussain2310/respd/internal/commands"
	"github.com/faizanhussain2310/respd/internal/mailbox"
	"github.com/faizanhussain2310/respd/internal/protocol"
	"github.com/faizanhussain2310/respd/internal/pubsub"
	"github.com/faizanhussain2310/respd/internal/store"
	"github.com/faizanhussain2310/respd/internal/stream"
)

// scratchSize is the per-read scratch buffer. Partial commands are
// never discarded: bytes accumulate in the reader's buffer until the
// parser can frame a full command (see reader.go).
const scratchSize = 512

// Connection is one accepted client. Serve runs its full lifecycle and
// does not return until the client disconnects or the connection
// errors out.
type Connection struct {
	stream stream.Stream
	store  *store.Store
}

// New wraps an accepted Stream for dispatch against store.
func New(s stream.Stream, st *store.Store) *Connection {
	return &Connection{stream: s, store: st}
}

// Serve runs the reader on the calling goroutine, having first spawned
// the writer and pub/sub pump tasks. It returns once all three have
// exited.
func (c *Connection) Serve() {
	defer c.stream.Close()

	writerSide, err := c.stream.Clone()
	if err != nil {
		log.Printf("connection: clone for writer failed: %v", err)
		return
	}

	replies := mailbox.New[protocol.Response]()
	events := mailbox.New[pubsub.Event]()

	var g errgroup.Group
	g.Go(func() error {
		runWriter(writerSide, replies)
		return nil
	})
	g.Go(func() error {
		runPubsubPump(events, replies)
		return nil
	})

	st := commands.NewState(events)
	c.readLoop(replies, events, st)

	g.Wait()

	c.store.PubSub.RemoveSubscriber(st.ID, channelNames(st), patternNames(st))
}

func channelNames(st *commands.State) []string {
	out := make([]string, 0, len(st.Channels))
	for ch := range st.Channels {
		out = append(out, ch)
	}
	return out
}

func patternNames(st *commands.State) []string {
	out := make([]string, 0, len(st.Patterns))
	for p := range st.Patterns {
		out = append(out, p)
	}
	return out
}

// Package commands executes parsed RESP commands against the shared
// store. It owns the command table and the control-flow results
// (NoReply, Wait) the connection worker reacts to.
package commands

import (
	"github.com/google/uuid"

	"github.com/faizanhussain2310/respd/internal/pubsub"
)

// State is the per-connection mutable state a command may read or
// mutate: current db index and the subscription maps. It is owned and
// mutated only by that connection's reader task.
type State struct {
	ID       uuid.UUID // stable subscriber id used as the pub/sub registry key
	DB       int
	Channels map[string]uuid.UUID // channel name -> subscription id
	Patterns map[string]uuid.UUID // glob pattern -> subscription id

	// Sink is this connection's pub/sub mailbox sender, handed to the
	// registry on every (p)subscribe so published events land there
	// without the registry knowing anything about sockets.
	Sink pubsub.Sink
}

// NewState returns a fresh per-connection state with a freshly minted
// subscriber id.
func NewState(sink pubsub.Sink) *State {
	return &State{
		ID:       uuid.New(),
		Channels: make(map[string]uuid.UUID),
		Patterns: make(map[string]uuid.UUID),
		Sink:     sink,
	}
}

package connection

import (
	"fmt"
	"log"

	"github.com/faizanhussain2310/respd/internal/commands"
	"github.com/faizanhussain2310/respd/internal/mailbox"
	"github.com/faizanhussain2310/respd/internal/protocol"
	"github.com/faizanhussain2310/respd/internal/pubsub"
	"github.com/faizanhussain2310/respd/internal/store"
)

// readLoop reads bytes, frames them with protocol.Parse, and dispatches
// each framed command.
//
// buf is a growing accumulator, not just the scratch slice: a client is
// free to split one command across arbitrarily many writes, and a
// command larger than one scratch read must survive across reads.
func (c *Connection) readLoop(replies *mailbox.Mailbox[protocol.Response], events *mailbox.Mailbox[pubsub.Event], st *commands.State) {
	defer func() {
		// Tell both tasks to stop, best effort.
		replies.Close()
		events.Close()
	}()

	scratch := make([]byte, scratchSize)
	var buf []byte

	for {
		n, err := c.stream.Read(scratch)
		if n > 0 {
			buf = append(buf, scratch[:n]...)
		}
		if err != nil {
			return // EOF or I/O error tears the connection down
		}

		for {
			cmd, consumed, perr := protocol.Parse(buf)
			if perr == protocol.ErrIncomplete {
				break
			}
			if perr != nil {
				log.Printf("connection: %v", perr)
				return
			}
			buf = buf[consumed:]
			if cmd == nil {
				continue // skipped blank inline line
			}

			if !c.dispatch(cmd, replies, st) {
				return
			}
		}
	}
}

// dispatch runs one parsed command against the store, looping only on
// the blocking-command retry path.
func (c *Connection) dispatch(cmd *protocol.Command, replies *mailbox.Mailbox[protocol.Response], st *commands.State) bool {
	for {
		locked, err := c.store.Acquire()
		if err != nil {
			log.Printf("connection: %v", err)
			return false
		}

		resp, cmdErr := execute(locked, st, cmd)

		if waitErr, ok := cmdErr.(*commands.WaitError); ok {
			// The guard must be dropped before suspending: the event
			// that unblocks this waiter is produced by another
			// connection mutating the store.
			locked.Release()

			retry, open := <-waitErr.Result
			if !open {
				log.Printf("connection: blocking-wait channel closed without a value")
				return false
			}
			if retry {
				continue
			}
			return replies.Send(protocol.Nil)
		}

		locked.Release()

		switch cmdErr {
		case nil:
			return replies.Send(resp)
		case commands.ErrNoReply:
			return true
		default:
			log.Printf("connection: command error: %v", cmdErr)
			return true
		}
	}
}

// execute wraps commands.Execute so a panicking command handler poisons
// the store instead of leaving it silently corrupted, and the panic is
// recovered here rather than crashing the process. Once poisoned, every
// later Acquire fails, so each connection (this one included) tears
// down at its next command.
func execute(locked *store.Locked, st *commands.State, cmd *protocol.Command) (resp protocol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			locked.Poison()
			err = fmt.Errorf("command panic: %v", r)
		}
	}()
	return commands.Execute(locked, st, cmd)
}

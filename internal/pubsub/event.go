package pubsub

import (
	"github.com/faizanhussain2310/respd/internal/protocol"
)

// Kind distinguishes a channel-published message from a pattern match.
type Kind int

const (
	KindMessage Kind = iota
	KindPMessage
)

// Event is a notification delivered to a subscriber, carried on a
// connection's pub/sub mailbox until the pump turns it into a Response.
type Event struct {
	Kind    Kind
	Channel string
	Pattern string // set only for KindPMessage
	Payload string
}

// AsResponse converts the event to the RESP array frame a subscribed
// client expects: ["message", channel, payload] or
// ["pmessage", pattern, channel, payload].
func (e Event) AsResponse() protocol.Response {
	switch e.Kind {
	case KindPMessage:
		return protocol.NewResponse(protocol.EncodeRawArray([][]byte{
			protocol.EncodeBulkString("pmessage"),
			protocol.EncodeBulkString(e.Pattern),
			protocol.EncodeBulkString(e.Channel),
			protocol.EncodeBulkString(e.Payload),
		}))
	default:
		return protocol.NewResponse(protocol.EncodeRawArray([][]byte{
			protocol.EncodeBulkString("message"),
			protocol.EncodeBulkString(e.Channel),
			protocol.EncodeBulkString(e.Payload),
		}))
	}
}

package connection

import (
	"github.com/faizanhussain2310/respd/internal/mailbox"
	"github.com/faizanhussain2310/respd/internal/protocol"
	"github.com/faizanhussain2310/respd/internal/pubsub"
)

// runPubsubPump converts asynchronous pub/sub notifications into
// responses and forwards them into the writer mailbox, independently of
// whatever the reader is currently doing.
func runPubsubPump(events *mailbox.Mailbox[pubsub.Event], replies *mailbox.Mailbox[protocol.Response]) {
	for {
		event, ok := events.Recv()
		if !ok {
			// Also signals the writer to stop.
			replies.Close()
			return
		}
		replies.Send(event.AsResponse())
	}
}

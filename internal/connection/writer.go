package connection

import (
	"log"

	"github.com/faizanhussain2310/respd/internal/mailbox"
	"github.com/faizanhussain2310/respd/internal/protocol"
	"github.com/faizanhussain2310/respd/internal/stream"
)

// runWriter is the single producer of bytes on the write half of the
// socket, draining replies in the order the reader (and, via the pump,
// the store) enqueued them.
func runWriter(s stream.Stream, replies *mailbox.Mailbox[protocol.Response]) {
	for {
		resp, ok := replies.Recv()
		if !ok {
			return
		}

		if _, err := s.Write(resp.Bytes()); err != nil {
			// Keep draining the mailbox: the reader's next Read on the
			// same broken socket will fail too and close both
			// mailboxes, which is what ends this loop.
			log.Printf("connection: write error: %v", err)
		}
	}
}

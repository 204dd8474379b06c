// Package stream provides a uniform byte-stream abstraction over TCP and
// (on POSIX hosts) local filesystem sockets.
package stream

import (
	"net"
	"time"
)

// Stream is a byte stream over one accepted client connection. A new
// transport is a new implementation of these methods.
type Stream interface {
	// Read blocks up to the configured read timeout. n == 0 with a nil
	// error never happens; n == 0 with io.EOF denotes orderly EOF.
	Read(buf []byte) (n int, err error)

	// Write blocks up to the configured write timeout. Short writes are
	// never returned to the caller: Write loops internally until buf is
	// fully drained or an error occurs.
	Write(buf []byte) (n int, err error)

	// Clone returns a second handle over the same underlying
	// connection. The writer task owns its own clone so it never needs
	// to coordinate with the reader over who may call Write. The TCP and
	// unix implementations share one connection object between the
	// handles, so deadlines set and Close called through either handle
	// apply to both.
	Clone() (Stream, error)

	// SetKeepAlive enables TCP keepalive with the given period, or
	// disables it when seconds <= 0. A no-op on transports that don't
	// support it (e.g. filesystem sockets).
	SetKeepAlive(seconds int) error

	// SetReadTimeout and SetWriteTimeout arm (or, when d <= 0, disarm)
	// the deadline observed by the next Read/Write call. Expiry fails
	// that one I/O call; there is no mid-operation cancellation.
	SetReadTimeout(d time.Duration) error
	SetWriteTimeout(d time.Duration) error

	// Close releases the underlying file descriptor.
	Close() error

	// RemoteAddr identifies the peer, for logging.
	RemoteAddr() net.Addr
}

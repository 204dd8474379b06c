//go:build unix

package stream

import (
	"net"
	"time"
)

// unixStream is the Stream implementation over a local filesystem
// socket. Only built on POSIX hosts.
type unixStream struct {
	conn *net.UnixConn
}

// NewUnix wraps an already-accepted unix-domain connection as a Stream.
func NewUnix(conn *net.UnixConn) Stream {
	return &unixStream{conn: conn}
}

func (s *unixStream) Read(buf []byte) (int, error) {
	return s.conn.Read(buf)
}

func (s *unixStream) Write(buf []byte) (int, error) {
	written := 0
	for written < len(buf) {
		n, err := s.conn.Write(buf[written:])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (s *unixStream) Clone() (Stream, error) {
	return &unixStream{conn: s.conn}, nil
}

// SetKeepAlive is a no-op: AF_UNIX sockets have no notion of TCP
// keepalive.
func (s *unixStream) SetKeepAlive(seconds int) error {
	return nil
}

func (s *unixStream) SetReadTimeout(d time.Duration) error {
	if d <= 0 {
		return s.conn.SetReadDeadline(time.Time{})
	}
	return s.conn.SetReadDeadline(time.Now().Add(d))
}

func (s *unixStream) SetWriteTimeout(d time.Duration) error {
	if d <= 0 {
		return s.conn.SetWriteDeadline(time.Time{})
	}
	return s.conn.SetWriteDeadline(time.Now().Add(d))
}

func (s *unixStream) Close() error {
	return s.conn.Close()
}

func (s *unixStream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

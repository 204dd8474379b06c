package stream

import "net"

// Wrap adapts an accepted net.Conn (from a TCP or filesystem listener)
// into the Stream abstraction.
func Wrap(conn net.Conn) (Stream, error) {
	if c, ok := conn.(*net.TCPConn); ok {
		return NewTCP(c), nil
	}
	return wrapPlatform(conn)
}

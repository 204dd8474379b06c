//go:build unix

package stream

import (
	"fmt"
	"net"
)

func wrapPlatform(conn net.Conn) (Stream, error) {
	if c, ok := conn.(*net.UnixConn); ok {
		return NewUnix(c), nil
	}
	return nil, fmt.Errorf("stream: unsupported connection type %T", conn)
}

//go:build !unix

package stream

import (
	"fmt"
	"net"
)

func wrapPlatform(conn net.Conn) (Stream, error) {
	return nil, fmt.Errorf("stream: unsupported connection type %T", conn)
}

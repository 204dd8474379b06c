package listener

import (
	"fmt"
	"net"
)

// BindTCP binds a TCP endpoint. Failure here is fatal to startup.
func BindTCP(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listener: bind tcp %s: %w", addr, err)
	}
	return New(ln, "tcp:"+addr), nil
}

//go:build !unix

package listener

import "fmt"

// UnixSocketSupported reports whether this host can bind a filesystem
// socket. False on non-POSIX hosts.
const UnixSocketSupported = false

// BindUnix always fails on non-POSIX hosts; callers are expected to
// check UnixSocketSupported first and log a diagnostic instead of
// calling this.
func BindUnix(path string) (*Listener, error) {
	return nil, fmt.Errorf("listener: filesystem sockets are not supported on this host")
}

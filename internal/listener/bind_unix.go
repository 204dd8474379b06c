//go:build unix

package listener

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// UnixSocketSupported reports whether this host can bind a filesystem
// socket.
const UnixSocketSupported = true

// BindUnix binds a local filesystem socket. A stale socket file from an
// unclean shutdown is removed first, but only if the path really is a
// socket: a regular file or directory at the configured path is a
// misconfiguration and bind is left to fail on it.
func BindUnix(path string) (*Listener, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err == nil && st.Mode&unix.S_IFMT == unix.S_IFSOCK {
		_ = os.Remove(path)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listener: bind unix %s: %w", path, err)
	}
	return New(ln, "unix:"+path), nil
}

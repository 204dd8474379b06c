// Package config holds the listener addresses, timeouts, keepalive,
// and daemonization settings the network layer consumes.
package config

import "time"

// Config is the server's configuration surface.
type Config struct {
	// Addresses is the set of TCP host:port endpoints to bind.
	Addresses []string

	// UnixSocket is an optional filesystem-socket path (POSIX hosts
	// only; ignored elsewhere with a diagnostic).
	UnixSocket string

	// TCPKeepAlive is the keepalive period in seconds; 0 disables it.
	TCPKeepAlive int

	// Timeout sets both the read and write timeout on new connections;
	// 0 disables both.
	Timeout time.Duration

	// Daemonize forks and detaches before starting, on POSIX hosts.
	Daemonize bool

	// PIDFile is where the (post-fork) child writes its PID.
	PIDFile string

	// Databases is the number of selectable databases (SELECT 0..N-1).
	Databases int
}

// Default returns the configuration a freshly started server uses when
// no flags are given.
func Default() *Config {
	return &Config{
		Addresses:    []string{"127.0.0.1:6379"},
		TCPKeepAlive: 300,
		Timeout:      0,
		Databases:    16,
		PIDFile:      "respd.pid",
	}
}

//go:build !unix

package server

import "errors"

// daemonize is unsupported outside POSIX hosts.
func daemonize() (isChild bool, err error) {
	return false, errors.New("daemonize: unsupported on this platform")
}

func writePIDFile(path string) {}

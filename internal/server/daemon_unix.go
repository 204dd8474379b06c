//go:build unix

package server

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
)

// daemonChildEnv flags a re-exec'd process as the detached child, since
// Go cannot safely fork() a running multithreaded process and keep its
// goroutine scheduler and runtime-managed threads intact in the child.
const daemonChildEnv = "RESPD_DAEMON_CHILD"

// daemonize re-executes the current binary with daemonChildEnv set,
// detached into its own session via Setsid, and with stdio redirected to
// /dev/null. It returns (false, nil) in the parent after launching the
// child, and (true, nil) in the child process itself.
func daemonize() (isChild bool, err error) {
	if os.Getenv(daemonChildEnv) == "1" {
		return true, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("daemonize: %w", err)
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("daemonize: %w", err)
	}
	defer devnull.Close()

	env := append(os.Environ(), daemonChildEnv+"=1")
	attr := &os.ProcAttr{
		Dir:   ".",
		Env:   env,
		Files: []*os.File{devnull, devnull, devnull},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}

	proc, err := os.StartProcess(exe, os.Args, attr)
	if err != nil {
		return false, fmt.Errorf("daemonize: %w", err)
	}
	// Deliberately not Wait()-ed: the child is meant to outlive us.
	_ = proc.Release()

	return false, nil
}

// writePIDFile writes the running process's PID to path. Failures are
// logged, not fatal: a missing PID file does not affect serving.
func writePIDFile(path string) {
	if path == "" {
		return
	}
	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "respd: write pidfile %s: %v\n", path, err)
	}
}

package commands

import "errors"

// ErrNoReply marks a command as deliberately silent: the connection
// worker goes back to reading without enqueuing anything.
var ErrNoReply = errors.New("commands: no reply")

// WaitError means the command cannot complete yet. Result is the
// single-shot channel the store will signal: true to retry the same
// command with fresh state, false once the wait has been exhausted
// (timeout).
type WaitError struct {
	Result <-chan bool
}

func (e *WaitError) Error() string {
	return "commands: blocking wait"
}

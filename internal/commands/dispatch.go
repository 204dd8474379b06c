package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/faizanhussain2310/respd/internal/protocol"
	"github.com/faizanhussain2310/respd/internal/store"
)

// commandFunc executes one command. The error return carries the
// control-flow results (ErrNoReply, WaitError) back to the connection
// worker.
type commandFunc func(l *store.Locked, st *State, args []string) (protocol.Response, error)

var table map[string]commandFunc

func init() {
	table = map[string]commandFunc{
		"PING":   cmdPing,
		"ECHO":   cmdEcho,
		"SELECT": cmdSelect,
		"SET":    cmdSet,
		"GET":    cmdGet,
		"DEL":    cmdDel,
		"EXISTS": cmdExists,

		"LPUSH":  cmdPush(store.Left),
		"RPUSH":  cmdPush(store.Right),
		"LPOP":   cmdPop(store.Left),
		"RPOP":   cmdPop(store.Right),
		"LLEN":   cmdLLen,
		"LRANGE": cmdLRange,
		"BLPOP":  cmdBlockingPop(store.Left),
		"BRPOP":  cmdBlockingPop(store.Right),

		"SUBSCRIBE":    cmdSubscribe,
		"UNSUBSCRIBE":  cmdUnsubscribe,
		"PSUBSCRIBE":   cmdPSubscribe,
		"PUNSUBSCRIBE": cmdPUnsubscribe,
		"PUBLISH":      cmdPublish,
		"PUBSUB":       cmdPubSub,
	}
}

// Execute dispatches cmd against the locked store, mutating st in
// place. It is the sole entry point the connection worker calls.
func Execute(l *store.Locked, st *State, cmd *protocol.Command) (protocol.Response, error) {
	if cmd == nil || len(cmd.Args) == 0 {
		// An empty array is a client probing the connection; stay
		// silent rather than erroring it.
		return protocol.Response{}, ErrNoReply
	}

	name := strings.ToUpper(cmd.Args[0])
	fn, ok := table[name]
	if !ok {
		return protocol.NewResponse(protocol.EncodeError("ERR unknown command '" + name + "'")), nil
	}
	return fn(l, st, cmd.Args[1:])
}

func cmdPing(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) > 0 {
		return protocol.NewResponse(protocol.EncodeBulkString(args[0])), nil
	}
	return protocol.NewResponse(protocol.EncodeSimpleString("PONG")), nil
}

func cmdEcho(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) != 1 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'echo' command")), nil
	}
	return protocol.NewResponse(protocol.EncodeBulkString(args[0])), nil
}

func cmdSelect(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) != 1 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'select' command")), nil
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return protocol.NewResponse(protocol.EncodeError("ERR value is not an integer or out of range")), nil
	}
	if idx < 0 || idx >= numDBs(l) {
		return protocol.NewResponse(protocol.EncodeError("ERR DB index is out of range")), nil
	}
	st.DB = idx
	return protocol.NewResponse(protocol.EncodeSimpleString("OK")), nil
}

func numDBs(l *store.Locked) int {
	// Selectable range is reported through the store so it stays the
	// single source of truth for how many databases exist.
	return l.NumDBs()
}

func cmdSet(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) < 2 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'set' command")), nil
	}
	var ttl time.Duration
	if len(args) >= 4 && strings.EqualFold(args[2], "EX") {
		secs, err := strconv.Atoi(args[3])
		if err != nil {
			return protocol.NewResponse(protocol.EncodeError("ERR invalid expire time in 'set' command")), nil
		}
		ttl = time.Duration(secs) * time.Second
	}
	l.Set(st.DB, args[0], args[1], ttl)
	return protocol.NewResponse(protocol.EncodeSimpleString("OK")), nil
}

func cmdGet(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) != 1 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'get' command")), nil
	}
	v, ok := l.Get(st.DB, args[0])
	if !ok {
		return protocol.NewResponse(protocol.NilBulkString()), nil
	}
	return protocol.NewResponse(protocol.EncodeBulkString(v)), nil
}

func cmdDel(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) == 0 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'del' command")), nil
	}
	return protocol.NewResponse(protocol.EncodeInteger(int64(l.Del(st.DB, args...)))), nil
}

func cmdExists(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) == 0 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'exists' command")), nil
	}
	return protocol.NewResponse(protocol.EncodeInteger(int64(l.Exists(st.DB, args...)))), nil
}

func cmdPush(side store.Side) commandFunc {
	return func(l *store.Locked, st *State, args []string) (protocol.Response, error) {
		if len(args) < 2 {
			return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for push command")), nil
		}
		n := l.Push(st.DB, args[0], side, args[1:]...)
		return protocol.NewResponse(protocol.EncodeInteger(int64(n))), nil
	}
}

func cmdPop(side store.Side) commandFunc {
	return func(l *store.Locked, st *State, args []string) (protocol.Response, error) {
		if len(args) != 1 {
			return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for pop command")), nil
		}
		v, ok := l.Pop(st.DB, args[0], side)
		if !ok {
			return protocol.NewResponse(protocol.NilBulkString()), nil
		}
		return protocol.NewResponse(protocol.EncodeBulkString(v)), nil
	}
}

func cmdLLen(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) != 1 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'llen' command")), nil
	}
	return protocol.NewResponse(protocol.EncodeInteger(int64(l.Len(st.DB, args[0])))), nil
}

func cmdLRange(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) != 3 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'lrange' command")), nil
	}
	start, err1 := strconv.Atoi(args[1])
	stop, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return protocol.NewResponse(protocol.EncodeError("ERR value is not an integer or out of range")), nil
	}
	return protocol.NewResponse(protocol.EncodeArray(l.Range(st.DB, args[0], start, stop))), nil
}

// cmdBlockingPop tries the non-blocking pop first; on an empty list it
// registers with the store's blocking coordinator and returns a
// WaitError, handing the retry decision to the connection worker
// instead of blocking here with the store guard held.
func cmdBlockingPop(side store.Side) commandFunc {
	return func(l *store.Locked, st *State, args []string) (protocol.Response, error) {
		if len(args) < 2 {
			return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for blocking pop command")), nil
		}
		timeoutSecs, err := strconv.ParseFloat(args[len(args)-1], 64)
		if err != nil {
			return protocol.NewResponse(protocol.EncodeError("ERR timeout is not a float or out of range")), nil
		}
		keys := args[:len(args)-1]

		for _, key := range keys {
			if v, ok := l.Pop(st.DB, key, side); ok {
				return protocol.NewResponse(protocol.EncodeArray([]string{key, v})), nil
			}
		}

		timeout := time.Duration(timeoutSecs * float64(time.Second))
		ch := l.Block(keys, timeout)
		return protocol.Response{}, &WaitError{Result: ch}
	}
}

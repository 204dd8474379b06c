package commands

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/faizanhussain2310/respd/internal/protocol"
	"github.com/faizanhussain2310/respd/internal/store"
)

// subscribeAck builds one confirmation frame of the given kind
// ("subscribe", "unsubscribe", ...) for name, reporting the
// connection's subscription count after the change.
func subscribeAck(kind, name string, count int) []byte {
	return protocol.EncodeRawArray([][]byte{
		protocol.EncodeBulkString(kind),
		protocol.EncodeBulkString(name),
		protocol.EncodeInteger(int64(count)),
	})
}

// cmdSubscribe registers the connection for each named channel. The
// confirmation frames for all channels are concatenated into a single
// response so the reply path still enqueues exactly once per command.
func cmdSubscribe(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) == 0 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'subscribe' command")), nil
	}

	var out []byte
	for _, channel := range args {
		l.PubSub().Subscribe(st.ID, st.Sink, channel)
		if _, ok := st.Channels[channel]; !ok {
			st.Channels[channel] = uuid.New()
		}
		out = append(out, subscribeAck("subscribe", channel, len(st.Channels)+len(st.Patterns))...)
	}
	return protocol.NewResponse(out), nil
}

// cmdUnsubscribe drops the named channels, or every channel when called
// with no arguments.
func cmdUnsubscribe(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	channels := args
	if len(channels) == 0 {
		for ch := range st.Channels {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		// Not subscribed anywhere: a single frame with a nil channel.
		return protocol.NewResponse(protocol.EncodeRawArray([][]byte{
			protocol.EncodeBulkString("unsubscribe"),
			protocol.NilBulkString(),
			protocol.EncodeInteger(0),
		})), nil
	}

	var out []byte
	for _, channel := range channels {
		l.PubSub().Unsubscribe(st.ID, channel)
		delete(st.Channels, channel)
		out = append(out, subscribeAck("unsubscribe", channel, len(st.Channels)+len(st.Patterns))...)
	}
	return protocol.NewResponse(out), nil
}

// cmdPSubscribe registers the connection for each glob pattern.
func cmdPSubscribe(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) == 0 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'psubscribe' command")), nil
	}

	var out []byte
	for _, pattern := range args {
		l.PubSub().PSubscribe(st.ID, st.Sink, pattern)
		if _, ok := st.Patterns[pattern]; !ok {
			st.Patterns[pattern] = uuid.New()
		}
		out = append(out, subscribeAck("psubscribe", pattern, len(st.Channels)+len(st.Patterns))...)
	}
	return protocol.NewResponse(out), nil
}

// cmdPUnsubscribe drops the named patterns, or every pattern when
// called with no arguments.
func cmdPUnsubscribe(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	patterns := args
	if len(patterns) == 0 {
		for p := range st.Patterns {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return protocol.NewResponse(protocol.EncodeRawArray([][]byte{
			protocol.EncodeBulkString("punsubscribe"),
			protocol.NilBulkString(),
			protocol.EncodeInteger(0),
		})), nil
	}

	var out []byte
	for _, pattern := range patterns {
		l.PubSub().PUnsubscribe(st.ID, pattern)
		delete(st.Patterns, pattern)
		out = append(out, subscribeAck("punsubscribe", pattern, len(st.Channels)+len(st.Patterns))...)
	}
	return protocol.NewResponse(out), nil
}

func cmdPublish(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) != 2 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'publish' command")), nil
	}
	n := l.PubSub().Publish(args[0], args[1])
	return protocol.NewResponse(protocol.EncodeInteger(int64(n))), nil
}

func cmdPubSub(l *store.Locked, st *State, args []string) (protocol.Response, error) {
	if len(args) == 0 {
		return protocol.NewResponse(protocol.EncodeError("ERR wrong number of arguments for 'pubsub' command")), nil
	}

	switch sub := args[0]; sub {
	case "CHANNELS", "channels":
		pattern := ""
		if len(args) > 1 {
			pattern = args[1]
		}
		return protocol.NewResponse(protocol.EncodeArray(l.PubSub().Channels(pattern))), nil

	case "NUMSUB", "numsub":
		counts := l.PubSub().NumSub(args[1:]...)
		flat := make([]string, 0, 2*len(args[1:]))
		for _, ch := range args[1:] {
			flat = append(flat, ch, strconv.Itoa(counts[ch]))
		}
		return protocol.NewResponse(protocol.EncodeArray(flat)), nil

	case "NUMPAT", "numpat":
		return protocol.NewResponse(protocol.EncodeInteger(int64(l.PubSub().NumPat()))), nil

	default:
		return protocol.NewResponse(protocol.EncodeError("ERR unknown PUBSUB subcommand")), nil
	}
}

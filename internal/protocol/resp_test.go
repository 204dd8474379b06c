package protocol

import (
	"bytes"
	"testing"
)

func TestParseArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		args     []string
		consumed int
	}{
		{
			name:     "ping",
			input:    "*1\r\n$4\r\nping\r\n",
			args:     []string{"ping"},
			consumed: 14,
		},
		{
			name:     "ping with argument",
			input:    "*2\r\n$4\r\nping\r\n$4\r\npong\r\n",
			args:     []string{"ping", "pong"},
			consumed: 24,
		},
		{
			name:     "set with empty value",
			input:    "*3\r\n$3\r\nset\r\n$1\r\nk\r\n$0\r\n\r\n",
			args:     []string{"set", "k", ""},
			consumed: 26,
		},
		{
			name:     "null bulk argument",
			input:    "*2\r\n$3\r\nget\r\n$-1\r\n",
			args:     []string{"get", ""},
			consumed: 18,
		},
		{
			name:     "binary safe payload",
			input:    "*2\r\n$4\r\necho\r\n$4\r\na\r\nb\r\n",
			args:     []string{"echo", "a\r\nb"},
			consumed: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, consumed, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if consumed != tt.consumed {
				t.Errorf("consumed = %d, want %d", consumed, tt.consumed)
			}
			if len(cmd.Args) != len(tt.args) {
				t.Fatalf("args = %q, want %q", cmd.Args, tt.args)
			}
			for i := range tt.args {
				if cmd.Args[i] != tt.args[i] {
					t.Errorf("arg[%d] = %q, want %q", i, cmd.Args[i], tt.args[i])
				}
			}
		})
	}
}

func TestParseIncomplete(t *testing.T) {
	full := "*2\r\n$4\r\nping\r\n$4\r\npong\r\n"

	// Every proper prefix must report ErrIncomplete with nothing
	// consumed, so a client may deliver a command byte by byte.
	for i := 0; i < len(full); i++ {
		cmd, consumed, err := Parse([]byte(full[:i]))
		if err != ErrIncomplete {
			t.Fatalf("prefix %d: err = %v, want ErrIncomplete", i, err)
		}
		if cmd != nil || consumed != 0 {
			t.Fatalf("prefix %d: cmd=%v consumed=%d, want nil/0", i, cmd, consumed)
		}
	}
}

func TestParsePipelined(t *testing.T) {
	buf := []byte("*1\r\n$4\r\nping\r\n*2\r\n$4\r\necho\r\n$2\r\nhi\r\n")

	cmd, consumed, err := Parse(buf)
	if err != nil {
		t.Fatalf("first Parse: %v", err)
	}
	if cmd.Args[0] != "ping" {
		t.Errorf("first command = %q, want ping", cmd.Args[0])
	}

	cmd, _, err = Parse(buf[consumed:])
	if err != nil {
		t.Fatalf("second Parse: %v", err)
	}
	if len(cmd.Args) != 2 || cmd.Args[0] != "echo" || cmd.Args[1] != "hi" {
		t.Errorf("second command = %q, want [echo hi]", cmd.Args)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bad array length", input: "*x\r\n"},
		{name: "negative array length", input: "*-2\r\n"},
		{name: "not a bulk string", input: "*1\r\n:5\r\n"},
		{name: "bad bulk length", input: "*1\r\n$x\r\n"},
		{name: "missing bulk terminator", input: "*1\r\n$4\r\npingXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			if err == nil || err == ErrIncomplete {
				t.Fatalf("err = %v, want parse failure", err)
			}
		})
	}
}

func TestParseInline(t *testing.T) {
	cmd, consumed, err := Parse([]byte("ping pong\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if consumed != 11 {
		t.Errorf("consumed = %d, want 11", consumed)
	}
	if len(cmd.Args) != 2 || cmd.Args[0] != "ping" || cmd.Args[1] != "pong" {
		t.Errorf("args = %q, want [ping pong]", cmd.Args)
	}

	// A blank line is skipped, not an error and not a command.
	cmd, consumed, err = Parse([]byte("\r\nping\r\n"))
	if err != nil {
		t.Fatalf("blank line: %v", err)
	}
	if cmd != nil {
		t.Errorf("blank line produced command %q", cmd.Args)
	}
	if consumed != 2 {
		t.Errorf("blank line consumed = %d, want 2", consumed)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want string
	}{
		{name: "simple string", got: EncodeSimpleString("OK"), want: "+OK\r\n"},
		{name: "error", got: EncodeError("ERR boom"), want: "-ERR boom\r\n"},
		{name: "integer", got: EncodeInteger(42), want: ":42\r\n"},
		{name: "bulk string", got: EncodeBulkString("pong"), want: "$4\r\npong\r\n"},
		{name: "empty bulk string", got: EncodeBulkString(""), want: "$0\r\n\r\n"},
		{name: "nil bulk string", got: NilBulkString(), want: "$-1\r\n"},
		{name: "nil array", got: NilArray(), want: "*-1\r\n"},
		{name: "array", got: EncodeArray([]string{"a", "bc"}), want: "*2\r\n$1\r\na\r\n$2\r\nbc\r\n"},
		{name: "empty array", got: EncodeArray(nil), want: "*0\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, []byte(tt.want)) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

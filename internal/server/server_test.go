package server

import (
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/faizanhussain2310/respd/internal/config"
	"github.com/faizanhussain2310/respd/internal/listener"
)

func startServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv := New(cfg)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func dialTCP(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn net.Conn, request, want string) {
	t.Helper()
	if _, err := conn.Write([]byte(request)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != want {
		t.Fatalf("reply = %q, want %q", buf, want)
	}
}

func TestPingOverTCP(t *testing.T) {
	cfg := config.Default()
	cfg.Addresses = []string{"127.0.0.1:0"}
	srv := startServer(t, cfg)

	conn := dialTCP(t, srv.Addrs()[0].String())
	roundTrip(t, conn, "*2\r\n$4\r\nping\r\n$4\r\npong\r\n", "$4\r\npong\r\n")
}

func TestStopThenRestart(t *testing.T) {
	cfg := config.Default()
	cfg.Addresses = []string{"127.0.0.1:0"}

	srv := New(cfg)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	addr := srv.Addrs()[0].String()

	if conn, err := net.DialTimeout("tcp", addr, 2*time.Second); err != nil {
		t.Fatalf("dial while running: %v", err)
	} else {
		conn.Close()
	}

	srv.Stop()

	if conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		conn.Close()
		t.Fatal("dial succeeded after Stop")
	}

	// Restart on the concrete port the first run was assigned.
	cfg2 := config.Default()
	cfg2.Addresses = []string{addr}
	srv2 := New(cfg2)
	if err := srv2.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer srv2.Stop()

	conn := dialTCP(t, addr)
	roundTrip(t, conn, "*1\r\n$4\r\nping\r\n", "+PONG\r\n")
}

func TestBindFailureIsFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Addresses = []string{"127.0.0.1:0"}
	srv := startServer(t, cfg)

	// Binding the same concrete port again must fail.
	cfg2 := config.Default()
	cfg2.Addresses = []string{srv.Addrs()[0].String()}
	srv2 := New(cfg2)
	if err := srv2.Start(); err == nil {
		srv2.Stop()
		t.Fatal("second bind of the same port succeeded")
	}
}

func TestSharedStoreAcrossConnections(t *testing.T) {
	cfg := config.Default()
	cfg.Addresses = []string{"127.0.0.1:0"}
	srv := startServer(t, cfg)
	addr := srv.Addrs()[0].String()

	a := dialTCP(t, addr)
	b := dialTCP(t, addr)

	roundTrip(t, a, "*3\r\n$3\r\nset\r\n$1\r\nk\r\n$1\r\nv\r\n", "+OK\r\n")
	roundTrip(t, b, "*2\r\n$3\r\nget\r\n$1\r\nk\r\n", "$1\r\nv\r\n")
}

func TestBlockingPopAcrossConnections(t *testing.T) {
	cfg := config.Default()
	cfg.Addresses = []string{"127.0.0.1:0"}
	srv := startServer(t, cfg)
	addr := srv.Addrs()[0].String()

	waiter := dialTCP(t, addr)
	pusher := dialTCP(t, addr)
	third := dialTCP(t, addr)

	if _, err := waiter.Write([]byte("*3\r\n$5\r\nblpop\r\n$1\r\nq\r\n$1\r\n0\r\n")); err != nil {
		t.Fatalf("blpop write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	// The store stays available to other connections during the wait.
	roundTrip(t, third, "*1\r\n$4\r\nping\r\n", "+PONG\r\n")

	roundTrip(t, pusher, "*3\r\n$5\r\nrpush\r\n$1\r\nq\r\n$3\r\njob\r\n", ":1\r\n")

	waiter.SetReadDeadline(time.Now().Add(2 * time.Second))
	want := "*2\r\n$1\r\nq\r\n$3\r\njob\r\n"
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(waiter, buf); err != nil {
		t.Fatalf("waiter read: %v", err)
	}
	if string(buf) != want {
		t.Fatalf("waiter reply = %q, want %q", buf, want)
	}
}

func TestUnixSocket(t *testing.T) {
	if !listener.UnixSocketSupported {
		t.Skip("filesystem sockets unsupported on this host")
	}

	path := filepath.Join(t.TempDir(), "respd.sock")
	cfg := config.Default()
	cfg.Addresses = nil
	cfg.UnixSocket = path
	startServer(t, cfg)

	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		t.Fatalf("dial unix: %v", err)
	}
	defer conn.Close()
	roundTrip(t, conn, "*1\r\n$4\r\nping\r\n", "+PONG\r\n")
}

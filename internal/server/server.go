// Package server implements the supervisor: it creates listeners,
// holds their stop channels, and joins on shutdown.
package server

import (
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/faizanhussain2310/respd/internal/config"
	"github.com/faizanhussain2310/respd/internal/connection"
	"github.com/faizanhussain2310/respd/internal/listener"
	"github.com/faizanhussain2310/respd/internal/store"
	"github.com/faizanhussain2310/respd/internal/stream"
)

// Server is the supervisor: it owns every bound Listener and the shared
// Store every Connection dispatches against.
type Server struct {
	cfg   *config.Config
	store *store.Store

	mu        sync.Mutex
	listeners []*listener.Listener
	stops     []chan struct{}
	group     *errgroup.Group

	// Connection workers are not tracked here: on Stop they are left
	// to exit via their own socket errors.
}

// New builds a Server over a fresh Store.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		cfg:   cfg,
		store: store.New(cfg.Databases),
	}
}

// Start binds every configured TCP address and, when supported and
// configured, the filesystem socket, then spawns an accept loop per
// listener. A bind failure is fatal to startup; Start returns the
// first one it hits without starting the remaining endpoints.
func (s *Server) Start() error {
	s.mu.Lock()
	s.group = &errgroup.Group{}
	s.mu.Unlock()

	for _, addr := range s.cfg.Addresses {
		ln, err := listener.BindTCP(addr)
		if err != nil {
			return err
		}
		s.serve(ln)
	}

	if s.cfg.UnixSocket != "" {
		if !listener.UnixSocketSupported {
			fmt.Fprintf(os.Stderr, "respd: unixsocket %q configured but filesystem sockets are not supported on this host; ignoring\n", s.cfg.UnixSocket)
		} else {
			ln, err := listener.BindUnix(s.cfg.UnixSocket)
			if err != nil {
				return err
			}
			s.serve(ln)
		}
	}

	return nil
}

// serve registers ln's stop channel and spawns its accept loop.
func (s *Server) serve(ln *listener.Listener) {
	stop := make(chan struct{}, 1)

	s.mu.Lock()
	s.listeners = append(s.listeners, ln)
	s.stops = append(s.stops, stop)
	group := s.group
	s.mu.Unlock()

	group.Go(func() error {
		ln.Run(stop, func(conn net.Conn) {
			s.spawn(conn)
		})
		return nil
	})

	log.Printf("respd: listening on %s", ln.Name)
}

// spawn adapts one accepted connection into a Stream, applies the
// server-wide keepalive/timeout settings, and starts its connection
// worker.
func (s *Server) spawn(conn net.Conn) {
	strm, err := stream.Wrap(conn)
	if err != nil {
		log.Printf("respd: %v", err)
		conn.Close()
		return
	}

	if err := strm.SetKeepAlive(s.cfg.TCPKeepAlive); err != nil {
		log.Printf("respd: set keepalive: %v", err)
	}
	if err := strm.SetReadTimeout(s.cfg.Timeout); err != nil {
		log.Printf("respd: set read timeout: %v", err)
	}
	if err := strm.SetWriteTimeout(s.cfg.Timeout); err != nil {
		log.Printf("respd: set write timeout: %v", err)
	}

	c := connection.New(strm, s.store)
	go c.Serve()
}

// Addrs returns the bound address of every active listener, in bind
// order. Useful when an endpoint was configured with port 0.
func (s *Server) Addrs() []net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]net.Addr, 0, len(s.listeners))
	for _, ln := range s.listeners {
		out = append(out, ln.Addr())
	}
	return out
}

// Stop signals every listener to stop accepting and unblocks each
// one's pending Accept, then waits for every accept loop to exit.
// Connection workers are not waited on.
func (s *Server) Stop() {
	s.mu.Lock()
	listeners := s.listeners
	stops := s.stops
	group := s.group
	s.listeners = nil
	s.stops = nil
	s.mu.Unlock()

	for _, stop := range stops {
		select {
		case stop <- struct{}{}:
		default:
		}
	}

	for _, ln := range listeners {
		unblock(ln)
	}

	if group != nil {
		group.Wait()
	}
}

// unblock induces a spurious connect: Accept is blocking, so a stop
// signal alone would never be observed until the next client happens to
// connect. For TCP this is a throwaway dial; for the unix listener,
// closing it directly is simpler and equally effective
// (net.Listener.Close always unblocks a pending Accept).
func unblock(ln *listener.Listener) {
	addr := ln.Addr()
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		conn, err := net.Dial("tcp", tcpAddr.String())
		if err != nil {
			// Fall back to closing the listener outright.
			ln.Close()
			return
		}
		conn.Close()
		return
	}
	ln.Close()
}

// Join blocks until every listener's accept loop has exited.
func (s *Server) Join() {
	s.mu.Lock()
	group := s.group
	s.mu.Unlock()
	if group != nil {
		group.Wait()
	}
}

// Run is the top-level entrypoint: daemonize if configured and
// supported, then Start and Join.
func (s *Server) Run() error {
	if s.cfg.Daemonize {
		isChild, err := daemonize()
		if err != nil {
			log.Printf("respd: daemonize failed, running in foreground: %v", err)
		} else if !isChild {
			// Parent: the child has been launched and detached.
			return nil
		} else {
			writePIDFile(s.cfg.PIDFile)
		}
	}

	if err := s.Start(); err != nil {
		return err
	}
	s.Join()
	return nil
}

// Command redisd is the respd server process: it parses flags into a
// config.Config, starts the supervisor, and stops it cleanly on SIGINT
// or SIGTERM.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faizanhussain2310/respd/internal/config"
	"github.com/faizanhussain2310/respd/internal/server"
)

func main() {
	cfg := config.Default()

	var addr string
	var timeoutSeconds int
	flag.StringVar(&addr, "bind", cfg.Addresses[0], "TCP address to listen on (host:port)")
	flag.StringVar(&cfg.UnixSocket, "unixsocket", "", "optional filesystem socket path")
	flag.IntVar(&cfg.TCPKeepAlive, "tcp-keepalive", cfg.TCPKeepAlive, "TCP keepalive period in seconds, 0 to disable")
	flag.IntVar(&timeoutSeconds, "timeout", 0, "idle connection timeout in seconds, 0 to disable")
	flag.BoolVar(&cfg.Daemonize, "daemonize", false, "detach into a background process (POSIX only)")
	flag.StringVar(&cfg.PIDFile, "pidfile", cfg.PIDFile, "path to write the daemonized PID to")
	flag.IntVar(&cfg.Databases, "databases", cfg.Databases, "number of selectable databases")
	flag.Parse()

	cfg.Addresses = []string{addr}
	cfg.Timeout = time.Duration(timeoutSeconds) * time.Second

	srv := server.New(cfg)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Printf("respd: shutting down")
		srv.Stop()
	}()

	if err := srv.Run(); err != nil {
		log.Fatalf("respd: %v", err)
	}
}

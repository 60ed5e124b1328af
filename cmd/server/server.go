package main

import (
	"net"
	"net/http"
	"time"
)

// newServer builds the HTTP server. There is no read or write deadline:
// bodies may be tens of MiB and a command (playback, upstream completion)
// runs as long as it takes.
func newServer(host, port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

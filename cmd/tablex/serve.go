package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tablexhttp "github.com/fwojciec/tablex/http"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// command is interrupted.
const shutdownTimeout = 5 * time.Second

// Run executes the serve command until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := tablexhttp.NewServer()
	s.Tables = deps.Tables
	s.Pages = deps.Pages
	s.Extractor = deps.Extractor
	s.Fetcher = deps.Fetcher
	s.Converter = deps.Converter
	s.Options = deps.Options
	if deps.Logger != nil {
		s.Logger = deps.Logger
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stderr, "Listening on http://%s\n", ln.Addr())

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Handle is a reference to an HTTP server. It provides clean startup and
// shutdown for net/http servers inside fx lifecycle hooks:
//
//	h := server.NewHandle(&http.Server{Addr: ":5000", Handler: router})
//	lc.Append(fx.Hook{
//	    OnStart: h.Start,
//	    OnStop:  h.Shutdown,
//	})
//
// Handle is not safe for concurrent use.
type Handle struct {
	srv   *http.Server
	ln    net.Listener
	errCh chan error
}

// NewHandle builds a Handle to srv. Starting or stopping srv directly from
// this point on leads to undefined behavior.
func NewHandle(srv *http.Server) *Handle {
	return &Handle{srv: srv}
}

// Addr returns the address the server listens on, or nil before Start.
func (h *Handle) Addr() net.Addr {
	if h.ln == nil {
		return nil
	}
	return h.ln.Addr()
}

// Start listens on the server address (":0" when empty) and serves in a
// separate goroutine. It returns once the listener is bound.
func (h *Handle) Start(ctx context.Context) error {
	if h.ln != nil {
		return errors.New("server is already running")
	}

	addr := h.srv.Addr
	if addr == "" {
		addr = ":0"
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("error starting HTTP server on %q: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.srv.Serve(ln)
		close(errCh)
	}()

	h.errCh = errCh
	h.ln = ln
	return nil
}

// Shutdown gracefully stops the server, waiting until in-flight requests
// finish or ctx is done.
func (h *Handle) Shutdown(ctx context.Context) error {
	if h.ln == nil {
		return nil
	}
	if err := h.srv.Shutdown(ctx); err != nil {
		return err
	}

	if err := <-h.errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	h.ln = nil
	return nil
}

package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dskvich/ollama-webui/pkg/logger"
)

type httpServer struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

func NewHTTPServer(addr string, handler http.Handler, shutdownTimeout time.Duration) *httpServer {
	return &httpServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (h *httpServer) Name() string { return "http_server" }

func (h *httpServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.srv.Addr, err)
	}
	return h.serve(ctx, ln)
}

func (h *httpServer) serve(ctx context.Context, ln net.Listener) error {
	slog.Info("Starting worker", "name", h.Name(), "addr", ln.Addr().String())
	defer slog.Info("Worker stopped", "name", h.Name())

	h.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()

	if err := h.srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", logger.Err(err))
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

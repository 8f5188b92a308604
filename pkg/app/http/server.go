package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/pkg/config"
)

const (
	defaultShutdownTimeout   = 30 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

// NewServer builds an http.Server for handler with the timeouts from cfg.
func NewServer(handler http.Handler, cfg *config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler:           handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// ServeAndWait binds cfg's address, serves handler and blocks until ctx is canceled
// or the server fails. Binding happens before it returns control to the serve loop,
// so an unavailable port is reported immediately.
func ServeAndWait(ctx context.Context, handler http.Handler, logger *zap.Logger, cfg *config.ServerConfig) error {
	if handler == nil {
		return fmt.Errorf("nil handler")
	}
	if cfg == nil {
		return fmt.Errorf("nil server config")
	}

	srv := NewServer(handler, cfg)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	return Serve(ctx, srv, ln, logger, cfg.ShutdownTimeout)
}

// Serve runs srv on ln until ctx is canceled or the server fails, then shuts it
// down gracefully within shutdownTimeout. In-flight requests keep running during
// shutdown; new connections are refused.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger, shutdownTimeout time.Duration) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	logger = logger.With(zap.Stringer("address", ln.Addr()))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server", zap.Duration("timeout", shutdownTimeout))
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("HTTP server failed", zap.Error(runErr))
			runErr = fmt.Errorf("http server failed: %w", runErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
		return errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("HTTP server stopped")
	return nil
}

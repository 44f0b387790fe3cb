package echo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long [Serve] drains in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Serve runs h on ln until ctx ends, then shuts down gracefully. It returns
// nil on a clean shutdown.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: MaxDelay + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrs := make(chan error, 1)
	go func() {
		logger.Info("echo server started", "addr", ln.Addr().String())
		serverErrs <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("echo server error: %w", err)
		}

		return nil

	case <-ctx.Done():
		logger.Info("echo server stopping")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("echo server didn't stop gracefully: %w", err)
		}

		logger.Info("echo server stopped")

		return nil
	}
}

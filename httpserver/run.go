package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
)

// Run serves handler on cfg.Addr until ctx is cancelled or the process
// receives SIGINT or SIGTERM. In-flight requests get cfg.ShutdownTimeout to
// finish; cleanup runs afterwards in every case, and its error is joined to
// the result.
func Run(ctx context.Context, cfg Config, handler http.Handler, cleanup func() error) error {
	ln, err := Listen(cfg.Addr, cfg.MaxConns)
	if err != nil {
		return runCleanup(err, cleanup)
	}

	return Serve(ctx, ln, cfg, handler, cleanup)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, ln net.Listener, cfg Config, handler http.Handler, cleanup func() error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	var err error
	select {
	case err = <-serveErr:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			err = fmt.Errorf("httpserver: shutdown: %w", serr)
			srv.Close()
		}
		if perr := <-serveErr; perr != nil && !errors.Is(perr, http.ErrServerClosed) {
			err = errors.Join(err, perr)
		}
	}

	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	return runCleanup(err, cleanup)
}

func runCleanup(err error, cleanup func() error) error {
	if cleanup == nil {
		return err
	}
	if cerr := cleanup(); cerr != nil {
		return errors.Join(err, fmt.Errorf("httpserver: cleanup: %w", cerr))
	}
	return err
}

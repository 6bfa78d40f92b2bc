package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long in-flight work may take after a
// termination signal.
const DefaultShutdownTimeout = 25 * time.Second

// ServeUntilSignal runs srv until SIGINT or SIGTERM, then stops accepting
// connections and calls each drain func with the remaining shutdown budget.
func ServeUntilSignal(srv *http.Server, drains ...func(ctx context.Context)) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigs:
		Logger.Infof("Received %s; shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	for _, drain := range drains {
		drain(ctx)
	}
	return err
}

// NewHTTPServer applies the timeouts every service uses.
func NewHTTPServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// One retry on transient network errors (EOF, closed connection).
var cleanupRetryDelay = 3 * time.Second

// CleanupService is implemented by every nightly purge job.
type CleanupService interface {
	CleanupDaily(ctx context.Context) error
}

// runWithRetry executes op(ctx) and, if it returns a transient network
// error, waits a moment then retries once.
func runWithRetry(ctx context.Context, name string, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
		strings.Contains(err.Error(), "connection was closed") {
		utils.Logger.WithError(err).Warnf("%s hit transient DB error; retrying once", name)
		select {
		case <-time.After(cleanupRetryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		return op(ctx)
	}
	return err
}

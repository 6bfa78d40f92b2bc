package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const (
	maxConnectRetries = 5
	connectTimeout    = 5 * time.Second
	initialBackoff    = 500 * time.Millisecond
)

// ConnectWithRetry opens a pool, retrying with exponential backoff while
// the database is still coming up.
func ConnectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	var (
		pool    *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxConnectRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		pool, err = newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			return pool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxConnectRetries, backoff,
		)
		if i < maxConnectRetries {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxConnectRetries, err)
}

// newDBPool constructs the pgx pool with production-safe settings.
//
//   - MaxConnIdleTime   – closes idle sockets before a proxy drops them
//   - HealthCheckPeriod – background ping keeps every conn warm
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}

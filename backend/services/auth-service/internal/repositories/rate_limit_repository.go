package repositories

import (
	"context"
	"time"

	"github.com/katara/mono-repo/backend/shared/go-repositories"
)

// RateLimitRepository counts attempts per key in a fixed window.
type RateLimitRepository interface {
	// IncrementAndCheck bumps the counter for key, starting a new window when
	// the previous one has lapsed. It reports whether the caller is still
	// within limit.
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// CleanupExpired drops counters whose window has ended.
	CleanupExpired(ctx context.Context) error
}

type rateLimitRepository struct {
	db repositories.DB
}

func NewRateLimitRepository(db repositories.DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

const incrementAttempt = `
    INSERT INTO rate_limit_attempts (key, attempt_count, expires_at)
    VALUES ($1, 1, NOW() + make_interval(secs => $2))
    ON CONFLICT (key) DO UPDATE
    SET attempt_count = CASE
            WHEN rate_limit_attempts.expires_at < NOW() THEN 1
            ELSE rate_limit_attempts.attempt_count + 1
        END,
        expires_at = CASE
            WHEN rate_limit_attempts.expires_at < NOW() THEN NOW() + make_interval(secs => $2)
            ELSE rate_limit_attempts.expires_at
        END
    RETURNING attempt_count
`

func (r *rateLimitRepository) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	var count int
	if err := r.db.QueryRow(ctx, incrementAttempt, key, window.Seconds()).Scan(&count); err != nil {
		return false, err
	}
	return count <= limit, nil
}

func (r *rateLimitRepository) CleanupExpired(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rate_limit_attempts WHERE expires_at < NOW()`)
	return err
}

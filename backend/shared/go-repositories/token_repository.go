package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// TokenRepository manages refresh tokens. Every method takes the raw signed
// token and hashes it internally.
type TokenRepository interface {
	// Store upserts by token hash; storing the same token twice overwrites.
	Store(ctx context.Context, rawToken string, userID uuid.UUID, expiresAt time.Time) error

	// Lookup returns (nil, nil) when no live row exists for the token at now.
	Lookup(ctx context.Context, rawToken string, now time.Time) (*models.RefreshToken, error)

	// Consume deletes the token if it is still live at now. Exactly one of
	// any number of concurrent callers gets true.
	Consume(ctx context.Context, rawToken string, now time.Time) (bool, error)

	// Revoke is a no-op for unknown tokens.
	Revoke(ctx context.Context, rawToken string) error

	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	CleanupExpired(ctx context.Context) error
}

type tokenRepository struct {
	db DB
}

func NewTokenRepository(db DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Store(ctx context.Context, rawToken string, userID uuid.UUID, expiresAt time.Time) error {
	query := `
        INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (token_hash) DO UPDATE
        SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at, created_at = NOW()
    `
	_, err := r.db.Exec(ctx, query, utils.HashToken(rawToken), userID, expiresAt)
	return err
}

func (r *tokenRepository) Lookup(ctx context.Context, rawToken string, now time.Time) (*models.RefreshToken, error) {
	query := `
        SELECT token_hash, user_id, expires_at, created_at
        FROM refresh_tokens
        WHERE token_hash = $1 AND expires_at > $2
    `
	var rt models.RefreshToken
	err := r.db.QueryRow(ctx, query, utils.HashToken(rawToken), now).Scan(
		&rt.TokenHash,
		&rt.UserID,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *tokenRepository) Consume(ctx context.Context, rawToken string, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = $1 AND expires_at > $2`,
		utils.HashToken(rawToken), now,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, rawToken string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, utils.HashToken(rawToken))
	return err
}

func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

func (r *tokenRepository) CleanupExpired(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	return err
}

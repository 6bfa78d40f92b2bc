// go-repositories/email_otp_repository.go
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// EmailOTPRepository stores at most one code hash per (email, purpose).
// Emails are normalised to lower case by every method.
type EmailOTPRepository interface {
	// Upsert replaces any existing code for the pair and resets attempts to zero.
	Upsert(ctx context.Context, otp *models.EmailOTP) error

	// Get returns (nil, nil) when no code exists for the pair.
	Get(ctx context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTP, error)

	// ReserveAttempt counts one verification attempt against the code with
	// the given hash, provided fewer than maxAttempts have been used. It
	// returns false when the cap is already reached or the code was replaced.
	ReserveAttempt(ctx context.Context, email string, purpose models.OTPPurpose, codeHash string, maxAttempts int) (bool, error)

	// Consume deletes the code with the given hash. Only one caller can win.
	Consume(ctx context.Context, email string, purpose models.OTPPurpose, codeHash string) (bool, error)

	CleanupExpired(ctx context.Context) error
}

type emailOTPRepository struct {
	db DB
}

func NewEmailOTPRepository(db DB) EmailOTPRepository {
	return &emailOTPRepository{db: db}
}

func (r *emailOTPRepository) Upsert(ctx context.Context, otp *models.EmailOTP) error {
	otp.Email = utils.NormalizeEmail(otp.Email)
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now().UTC()
	}
	otp.Attempts = 0

	q := `
        INSERT INTO email_otps (email, purpose, code_hash, expires_at, attempts, created_at)
        VALUES ($1, $2, $3, $4, 0, $5)
        ON CONFLICT (email, purpose) DO UPDATE
        SET code_hash  = EXCLUDED.code_hash,
            expires_at = EXCLUDED.expires_at,
            attempts   = 0,
            created_at = EXCLUDED.created_at
    `
	_, err := r.db.Exec(ctx, q, otp.Email, string(otp.Purpose), otp.CodeHash, otp.ExpiresAt, otp.CreatedAt)
	return err
}

func (r *emailOTPRepository) Get(ctx context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTP, error) {
	q := `
        SELECT email, purpose, code_hash, expires_at, attempts, created_at
        FROM email_otps
        WHERE email = $1 AND purpose = $2
    `
	var rec models.EmailOTP
	var p string
	err := r.db.QueryRow(ctx, q, utils.NormalizeEmail(email), string(purpose)).Scan(
		&rec.Email,
		&p,
		&rec.CodeHash,
		&rec.ExpiresAt,
		&rec.Attempts,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Purpose = models.OTPPurpose(p)
	return &rec, nil
}

func (r *emailOTPRepository) ReserveAttempt(
	ctx context.Context,
	email string,
	purpose models.OTPPurpose,
	codeHash string,
	maxAttempts int,
) (bool, error) {
	q := `
        UPDATE email_otps SET attempts = attempts + 1
        WHERE email = $1 AND purpose = $2 AND code_hash = $3 AND attempts < $4
    `
	tag, err := r.db.Exec(ctx, q, utils.NormalizeEmail(email), string(purpose), codeHash, maxAttempts)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *emailOTPRepository) Consume(ctx context.Context, email string, purpose models.OTPPurpose, codeHash string) (bool, error) {
	q := `DELETE FROM email_otps WHERE email = $1 AND purpose = $2 AND code_hash = $3`
	tag, err := r.db.Exec(ctx, q, utils.NormalizeEmail(email), string(purpose), codeHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *emailOTPRepository) CleanupExpired(ctx context.Context) error {
	q := `DELETE FROM email_otps WHERE expires_at < NOW()`
	_, err := r.db.Exec(ctx, q)
	return err
}

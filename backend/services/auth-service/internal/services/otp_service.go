package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var (
	ErrCodeNotFound    = errors.New("verification code not found")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeMismatch    = errors.New("verification code mismatch")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// IsInvalidCode reports whether err is one of the OTP failures shown to
// clients as "invalid or expired code".
func IsInvalidCode(err error) bool {
	return errors.Is(err, ErrCodeNotFound) || errors.Is(err, ErrCodeExpired) || errors.Is(err, ErrCodeMismatch)
}

// OTPService issues and verifies the six-digit email codes.
type OTPService interface {
	// Issue replaces any live code for (email, purpose) and returns the raw
	// code. The raw code is never stored.
	Issue(ctx context.Context, email string, purpose models.OTPPurpose, ttl time.Duration) (string, error)

	// Verify consumes the code on success. Every comparison counts against
	// the attempt cap, including the one that succeeds.
	Verify(ctx context.Context, email string, purpose models.OTPPurpose, code string) error
}

type otpService struct {
	repo        repositories.EmailOTPRepository
	pepper      string
	codeLength  int
	maxAttempts int
	now         func() time.Time
}

func NewOTPService(repo repositories.EmailOTPRepository, cfg *config.Config, now func() time.Time) OTPService {
	if now == nil {
		now = time.Now
	}
	return &otpService{
		repo:        repo,
		pepper:      cfg.PasswordPepper,
		codeLength:  cfg.VerificationCodeLength,
		maxAttempts: cfg.MaxVerificationAttempts,
		now:         now,
	}
}

func (s *otpService) Issue(ctx context.Context, email string, purpose models.OTPPurpose, ttl time.Duration) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("unknown otp purpose %q", purpose)
	}
	code, err := utils.RandomNumericCode(s.codeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	now := s.now().UTC()
	otp := &models.EmailOTP{
		Email:     email,
		Purpose:   purpose,
		CodeHash:  utils.HashVerificationCode(email, string(purpose), code, s.pepper),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.repo.Upsert(ctx, otp); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

func (s *otpService) Verify(ctx context.Context, email string, purpose models.OTPPurpose, code string) error {
	row, err := s.repo.Get(ctx, email, purpose)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrCodeNotFound
	}
	if !s.now().Before(row.ExpiresAt) {
		return ErrCodeExpired
	}
	if row.Attempts >= s.maxAttempts {
		return ErrTooManyAttempts
	}

	reserved, err := s.repo.ReserveAttempt(ctx, email, purpose, row.CodeHash, s.maxAttempts)
	if err != nil {
		return err
	}
	if !reserved {
		// Lost a race: either the cap was reached or the code was replaced.
		cur, err := s.repo.Get(ctx, email, purpose)
		if err != nil {
			return err
		}
		if cur == nil || cur.CodeHash != row.CodeHash {
			return ErrCodeNotFound
		}
		return ErrTooManyAttempts
	}

	expected := utils.HashVerificationCode(email, string(purpose), code, s.pepper)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(row.CodeHash)) != 1 {
		return ErrCodeMismatch
	}

	consumed, err := s.repo.Consume(ctx, email, purpose, row.CodeHash)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrCodeNotFound
	}
	return nil
}

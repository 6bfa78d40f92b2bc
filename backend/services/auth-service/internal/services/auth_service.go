package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/dtos"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// EmailChecker decides whether an address can receive mail.
type EmailChecker interface {
	Deliverable(ctx context.Context, email string) (bool, error)
}

// AuthService drives an account through
// unregistered -> pending verification -> verified.
type AuthService interface {
	// Register creates an unverified user and emails a verify_email code.
	Register(ctx context.Context, req dtos.RegisterRequest, clientIP string) error

	// ResendVerification never reports whether the email is known.
	ResendVerification(ctx context.Context, email, clientIP string) error

	// VerifyEmail marks the account verified and logs the user in.
	VerifyEmail(ctx context.Context, email, code string) (*TokenPair, error)

	Login(ctx context.Context, identifier, password string) (*TokenPair, error)

	// ForgotPassword never reports whether the email is known.
	ForgotPassword(ctx context.Context, email, clientIP string) error

	// ResetPassword replaces the password. It does not log the user in.
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	cfg        *config.Config
	userRepo   repositories.UserRepository
	otp        OTPService
	jwt        JWTService
	limiter    RateLimiterService
	notifier   NotificationService
	emailCheck EmailChecker
	hasher     *utils.PasswordHasher
}

func NewAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	otp OTPService,
	jwt JWTService,
	limiter RateLimiterService,
	notifier NotificationService,
	emailCheck EmailChecker,
) AuthService {
	return &authService{
		cfg:        cfg,
		userRepo:   userRepo,
		otp:        otp,
		jwt:        jwt,
		limiter:    limiter,
		notifier:   notifier,
		emailCheck: emailCheck,
		hasher:     utils.NewPasswordHasher(cfg.PasswordPepper, cfg.BcryptCost),
	}
}

func (s *authService) Register(ctx context.Context, req dtos.RegisterRequest, clientIP string) error {
	email := utils.NormalizeEmail(req.Email)

	if err := s.limiter.CheckEmailRateLimits(ctx, clientIP, email); err != nil {
		return err
	}

	ok, err := s.emailCheck.Deliverable(ctx, email)
	if err != nil {
		// The paid verdict is advisory; syntax and MX have already passed.
		utils.Logger.WithError(err).Warn("Email deliverability check failed; accepting address")
	} else if !ok {
		return utils.ErrInvalidEmail
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Bio:          req.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	if err := s.sendCode(ctx, email, models.OTPPurposeVerifyEmail); err != nil {
		return err
	}

	utils.Logger.WithField("user_id", user.ID).Info("User registered; verification pending")
	return nil
}

func (s *authService) sendCode(ctx context.Context, email string, purpose models.OTPPurpose) error {
	code, err := s.otp.Issue(ctx, email, purpose, s.cfg.VerificationCodeExpiry)
	if err != nil {
		return err
	}
	s.notifier.SendOTP(email, purpose, code)
	return nil
}

// limitSilently applies the email rate limits where the caller must not
// learn anything. It reports whether sending may proceed.
func (s *authService) limitSilently(ctx context.Context, clientIP, email, op string) (bool, error) {
	err := s.limiter.CheckEmailRateLimits(ctx, clientIP, email)
	if errors.Is(err, utils.ErrRateLimitExceeded) {
		utils.Logger.WithFields(logrus.Fields{"op": op, "ip": clientIP}).Warn("Rate limited; skipping email")
		return false, nil
	}
	return err == nil, err
}

func (s *authService) ResendVerification(ctx context.Context, email, clientIP string) error {
	email = utils.NormalizeEmail(email)

	proceed, err := s.limitSilently(ctx, clientIP, email, "resend_verification")
	if err != nil || !proceed {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.IsVerified {
		return nil
	}
	return s.sendCode(ctx, email, models.OTPPurposeVerifyEmail)
}

func (s *authService) VerifyEmail(ctx context.Context, email, code string) (*TokenPair, error) {
	email = utils.NormalizeEmail(email)

	if err := s.otp.Verify(ctx, email, models.OTPPurposeVerifyEmail, code); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrCodeNotFound
	}
	if err := s.userRepo.MarkVerified(ctx, email); err != nil {
		return nil, err
	}

	utils.Logger.WithField("user_id", user.ID).Info("Email verified")
	return s.jwt.IssuePair(ctx, user.ID)
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, utils.ErrEmailNotVerified
	}
	if !s.hasher.Check(password, user.PasswordHash) {
		utils.Logger.WithField("user_id", user.ID).Warn("Login failed: wrong password")
		return nil, utils.ErrInvalidCredentials
	}
	return s.jwt.IssuePair(ctx, user.ID)
}

func (s *authService) ForgotPassword(ctx context.Context, email, clientIP string) error {
	email = utils.NormalizeEmail(email)

	proceed, err := s.limitSilently(ctx, clientIP, email, "forgot_password")
	if err != nil || !proceed {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.sendCode(ctx, email, models.OTPPurposeResetPassword)
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = utils.NormalizeEmail(email)

	if err := s.otp.Verify(ctx, email, models.OTPPurposeResetPassword, code); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrCodeNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	utils.Logger.WithField("user_id", user.ID).Info("Password reset")
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.jwt.RotateRefreshToken(ctx, refreshToken)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.jwt.Revoke(ctx, refreshToken)
}


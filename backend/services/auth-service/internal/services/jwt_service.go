package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var (
	// ErrInvalidToken covers bad signatures, expiry, wrong issuer or type.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked means the refresh token is well formed but has no live record.
	ErrTokenRevoked = errors.New("refresh token revoked")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ---------------------------------------------------------------------
// JWTService interface
// ---------------------------------------------------------------------

type JWTService interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)

	// GenerateRefreshToken signs and stores a refresh token.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error)

	// IssuePair issues a fresh access token plus a stored refresh token.
	IssuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error)

	VerifyAccessToken(token string) (uuid.UUID, error)
	VerifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error)

	// RotateRefreshToken consumes token and issues a new pair. Only one of
	// several concurrent rotations of the same token succeeds.
	RotateRefreshToken(ctx context.Context, token string) (*TokenPair, error)

	// Revoke deletes the stored refresh token; unknown tokens are a no-op.
	Revoke(ctx context.Context, token string) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type jwtService struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	tokenRepo     repositories.TokenRepository
	now           func() time.Time
}

func NewJWTService(cfg *config.Config, tokenRepo repositories.TokenRepository, now func() time.Time) JWTService {
	if now == nil {
		now = time.Now
	}
	return &jwtService{
		secret:        cfg.JWTSecret,
		issuer:        cfg.JWTIssuer,
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		tokenRepo:     tokenRepo,
		now:           now,
	}
}

func (j *jwtService) sign(userID uuid.UUID, typ string, ttl time.Duration) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(ttl)
	claims := middleware.TokenClaims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (j *jwtService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	tok, _, err := j.sign(userID, "", j.accessExpiry)
	return tok, err
}

func (j *jwtService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	tok, exp, err := j.sign(userID, middleware.TokenTypeRefresh, j.refreshExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := j.tokenRepo.Store(ctx, tok, userID, exp); err != nil {
		return "", time.Time{}, fmt.Errorf("store refresh token: %w", err)
	}
	return tok, exp, nil
}

func (j *jwtService) IssuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := j.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := j.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *jwtService) VerifyAccessToken(token string) (uuid.UUID, error) {
	sub, err := middleware.ValidateAccessToken(token, j.secret, j.issuer, j.now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// parseRefresh checks signature, expiry, issuer and type only.
func (j *jwtService) parseRefresh(token string) (uuid.UUID, error) {
	claims, err := middleware.ParseToken(token, j.secret, j.issuer, j.now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != middleware.TokenTypeRefresh {
		return uuid.Nil, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

func (j *jwtService) VerifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := j.parseRefresh(token)
	if err != nil {
		return uuid.Nil, err
	}
	rec, err := j.tokenRepo.Lookup(ctx, token, j.now())
	if err != nil {
		return uuid.Nil, err
	}
	if rec == nil || rec.UserID != userID {
		return uuid.Nil, ErrTokenRevoked
	}
	return userID, nil
}

func (j *jwtService) RotateRefreshToken(ctx context.Context, token string) (*TokenPair, error) {
	userID, err := j.parseRefresh(token)
	if err != nil {
		return nil, err
	}

	consumed, err := j.tokenRepo.Consume(ctx, token, j.now())
	if err != nil {
		return nil, err
	}
	if !consumed {
		utils.Logger.WithField("user_id", userID).Warn("Refresh token reuse or unknown token")
		return nil, ErrTokenRevoked
	}
	return j.IssuePair(ctx, userID)
}

func (j *jwtService) Revoke(ctx context.Context, token string) error {
	return j.tokenRepo.Revoke(ctx, token)
}

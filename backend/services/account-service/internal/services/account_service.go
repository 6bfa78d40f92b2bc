package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/katara/mono-repo/backend/services/account-service/internal/config"
	"github.com/katara/mono-repo/backend/services/account-service/internal/dtos"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type AccountService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	hasher    *utils.PasswordHasher
}

func NewAccountService(cfg *config.Config, userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    utils.NewPasswordHasher(cfg.PasswordPepper, cfg.BcryptCost),
	}
}

// GetUserByID returns (nil, nil) when the user does not exist.
func (s *AccountService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// PatchProfile applies the present fields. Returns utils.ErrUsernameExists
// when another account owns the username.
func (s *AccountService) PatchProfile(ctx context.Context, userID string, req dtos.PatchMeRequest) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return utils.ErrUserNotFound
	}
	return s.userRepo.UpdateProfile(ctx, id, models.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
	})
}

// ChangePassword checks the current password, stores the new hash and signs
// the user out of every session.
func (s *AccountService) ChangePassword(ctx context.Context, userID string, req dtos.ChangePasswordRequest) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if !s.hasher.Check(req.CurrentPassword, user.PasswordHash) {
		return utils.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	utils.Logger.WithField("user_id", user.ID).Info("Password changed; sessions revoked")
	return nil
}

package services

import (
	"context"

	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type tokenCleanupService struct {
	tokenRepo repositories.TokenRepository
}

// NewTokenCleanupService removes expired refresh tokens each night.
func NewTokenCleanupService(tokenRepo repositories.TokenRepository) CleanupService {
	return &tokenCleanupService{tokenRepo: tokenRepo}
}

func (s *tokenCleanupService) CleanupDaily(ctx context.Context) error {
	if err := runWithRetry(ctx, "token cleanup", s.tokenRepo.CleanupExpired); err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup expired refresh_tokens")
		return err
	}
	utils.Logger.Info("Daily token cleanup (expired only) completed successfully.")
	return nil
}

package services

import (
	"context"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type rateLimitCleanupService struct {
	repo repositories.RateLimitRepository
}

// NewRateLimitCleanupService removes expired rate limit counters. Redis
// counters expire on their own, so this is a no-op for that backend.
func NewRateLimitCleanupService(repo repositories.RateLimitRepository) CleanupService {
	return &rateLimitCleanupService{repo: repo}
}

func (s *rateLimitCleanupService) CleanupDaily(ctx context.Context) error {
	if err := runWithRetry(ctx, "rate limit cleanup", s.repo.CleanupExpired); err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup expired rate_limit_attempts")
		return err
	}
	utils.Logger.Info("Daily rate limit counter cleanup completed successfully.")
	return nil
}

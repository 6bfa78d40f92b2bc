package services

import (
	"context"

	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type verificationCleanupService struct {
	otpRepo repositories.EmailOTPRepository
}

// NewVerificationCleanupService purges expired email codes of both purposes.
func NewVerificationCleanupService(otpRepo repositories.EmailOTPRepository) CleanupService {
	return &verificationCleanupService{otpRepo: otpRepo}
}

func (s *verificationCleanupService) CleanupDaily(ctx context.Context) error {
	if err := runWithRetry(ctx, "verification cleanup", s.otpRepo.CleanupExpired); err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup email_otps")
		return err
	}
	utils.Logger.Info("Daily verification-codes cleanup completed successfully.")
	return nil
}

package services

import (
	"context"
	"fmt"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// RateLimiterService guards every endpoint that sends an email.
type RateLimiterService interface {
	// CheckEmailRateLimits returns utils.ErrRateLimitExceeded when the global,
	// per-IP or per-address budget for the current window is spent.
	CheckEmailRateLimits(ctx context.Context, ip, emailAddress string) error
}

type rateLimiterService struct {
	repo repositories.RateLimitRepository
	cfg  *config.Config
}

func NewRateLimiterService(repo repositories.RateLimitRepository, cfg *config.Config) RateLimiterService {
	return &rateLimiterService{repo: repo, cfg: cfg}
}

func (s *rateLimiterService) CheckEmailRateLimits(ctx context.Context, ip, emailAddress string) error {
	checks := []struct {
		key   string
		limit int
		desc  string
	}{
		{"email:global", s.cfg.GlobalEmailLimitPerHour, "Global"},
		{fmt.Sprintf("email:ip:%s", ip), s.cfg.EmailLimitPerIPPerHour, "Per-IP"},
		{fmt.Sprintf("email:address:%s", utils.NormalizeEmail(emailAddress)), s.cfg.EmailLimitPerEmailPerHour, "Per-email"},
	}

	for _, c := range checks {
		allowed, err := s.repo.IncrementAndCheck(ctx, c.key, c.limit, s.cfg.RateLimitWindow)
		if err != nil {
			return err
		}
		if !allowed {
			utils.Logger.Warnf("%s email rate limit exceeded (key: %s)", c.desc, c.key)
			return utils.ErrRateLimitExceeded
		}
	}
	return nil
}

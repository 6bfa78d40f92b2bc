package services

import (
	"context"
	"sync"
	"time"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// NotificationService sends one-time codes without blocking the request
// that produced them.
type NotificationService interface {
	SendOTP(email string, purpose models.OTPPurpose, code string)

	// Wait blocks until every dispatched email has finished or ctx is done.
	Wait(ctx context.Context) error
}

type notificationService struct {
	cfg     *config.Config
	mailer  utils.Mailer
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewNotificationService(cfg *config.Config, mailer utils.Mailer) NotificationService {
	timeout := cfg.EmailSendTimeout
	if timeout <= 0 {
		timeout = config.DefaultEmailSendTimeout
	}
	return &notificationService{cfg: cfg, mailer: mailer, timeout: timeout, now: time.Now}
}

func (s *notificationService) SendOTP(email string, purpose models.OTPPurpose, code string) {
	msg := buildOTPEmail(s.cfg, email, purpose, code, s.now())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.mailer.Send(ctx, msg); err != nil {
			utils.Logger.WithError(err).WithField("purpose", purpose).
				Error("Failed to send verification email")
			return
		}
		utils.Logger.WithField("purpose", purpose).Debug("Verification email sent")
	}()
}

func (s *notificationService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

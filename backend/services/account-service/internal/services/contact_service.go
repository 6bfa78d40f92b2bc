package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/katara/mono-repo/backend/services/account-service/internal/config"
	"github.com/katara/mono-repo/backend/services/account-service/internal/dtos"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const contactSubject = "Nuevo mensaje de contacto - KataraLM"

type ContactService struct {
	cfg         *config.Config
	contactRepo repositories.ContactRepository
	mailer      utils.Mailer
	now         func() time.Time
}

func NewContactService(cfg *config.Config, contactRepo repositories.ContactRepository, mailer utils.Mailer) *ContactService {
	return &ContactService{cfg: cfg, contactRepo: contactRepo, mailer: mailer, now: time.Now}
}

// Submit stores the message and forwards it to the team. Forwarding is best
// effort; only a storage failure is returned.
func (s *ContactService) Submit(ctx context.Context, req dtos.ContactRequest) error {
	msg := &models.ContactMessage{
		Email:     req.Email,
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.now().UTC(),
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return err
	}

	if s.cfg.ContactEmail == "" {
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.EmailSendTimeout)
	defer cancel()
	if err := s.mailer.Send(sendCtx, s.buildEmail(msg)); err != nil {
		utils.Logger.WithError(err).WithField("contact_id", msg.ID).Warn("Failed to forward contact message")
	}
	return nil
}

func (s *ContactService) buildEmail(msg *models.ContactMessage) utils.EmailMessage {
	from := "anónimo"
	if msg.Email != nil && *msg.Email != "" {
		from = *msg.Email
	}

	body := fmt.Sprintf("Correo: %s<br><br>%s",
		html.EscapeString(from),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)

	return utils.EmailMessage{
		ToEmail:   s.cfg.ContactEmail,
		Subject:   contactSubject,
		PlainText: fmt.Sprintf("Correo: %s\n\n%s\n", from, msg.Message),
		HTML: utils.RenderBrandedEmail(utils.BrandedEmail{
			Subject:      contactSubject,
			Title:        "Mensaje de contacto",
			Body:         body,
			CTAURL:       s.cfg.AppUrl,
			CTAText:      "Abrir KataraLM",
			ContactEmail: s.cfg.ContactEmail,
			WhatsAppLink: s.cfg.WhatsAppLink,
			TermsURL:     s.cfg.TermsURL,
			PrivacyURL:   s.cfg.PrivacyURL,
			Year:         s.now().Year(),
		}),
	}
}

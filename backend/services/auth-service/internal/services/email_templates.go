package services

import (
	"fmt"
	"html"
	"time"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type otpEmailCopy struct {
	subject string
	title   string
	body    string
	ctaText string
}

var otpEmailCopies = map[models.OTPPurpose]otpEmailCopy{
	models.OTPPurposeVerifyEmail: {
		subject: "Verifica tu correo - KataraLM",
		title:   "Verificación de correo",
		body:    "Gracias por registrarte. Ingresa este código para verificar tu correo y activar tu cuenta.",
		ctaText: "Ver términos",
	},
	models.OTPPurposeResetPassword: {
		subject: "Recuperación de contraseña - KataraLM",
		title:   "Recuperación de contraseña",
		body:    "Usa este código para restablecer tu contraseña. Si no fuiste tú, ignora este mensaje.",
		ctaText: "Ver privacidad",
	},
}

// buildOTPEmail renders the branded code email for purpose.
func buildOTPEmail(cfg *config.Config, to string, purpose models.OTPPurpose, code string, now time.Time) utils.EmailMessage {
	c, ok := otpEmailCopies[purpose]
	if !ok {
		c = otpEmailCopies[models.OTPPurposeVerifyEmail]
	}

	cta := cfg.TermsURL
	if purpose == models.OTPPurposeResetPassword {
		cta = cfg.PrivacyURL
	}
	if cta == "" {
		cta = cfg.AppUrl
	}

	body := utils.RenderBrandedEmail(utils.BrandedEmail{
		Subject:      c.subject,
		Title:        c.title,
		Body:         html.EscapeString(c.body),
		Code:         code,
		CTAURL:       cta,
		CTAText:      c.ctaText,
		ContactEmail: cfg.ContactEmail,
		WhatsAppLink: cfg.WhatsAppLink,
		TermsURL:     cfg.TermsURL,
		PrivacyURL:   cfg.PrivacyURL,
		Year:         now.Year(),
	})

	return utils.EmailMessage{
		ToEmail:   to,
		Subject:   c.subject,
		PlainText: fmt.Sprintf("%s\n\n%s\n\nTu código es: %s\n", c.title, c.body, code),
		HTML:      body,
	}
}

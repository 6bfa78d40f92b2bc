package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailMessage is a single outbound HTML email.
type EmailMessage struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromEmail   string
	sandboxMode bool
}

func NewSendGridMailer(apiKey, fromName, fromEmail string, sandboxMode bool) *SendGridMailer {
	return &SendGridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromEmail:   fromEmail,
		sandboxMode: sandboxMode,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)

	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)
	if m.sandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: sendgrid send: %v", ErrExternalServiceFailure, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d", ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}

// LogMailer is used when no SendGrid key is configured. It records that an
// email would have gone out without logging its body.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg EmailMessage) error {
	Logger.WithField("to", msg.ToEmail).Infof("Email delivery disabled; dropping %q", msg.Subject)
	return nil
}

package testhelpers

import (
	"context"
	"regexp"
	"sync"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

// CapturingMailer records every message instead of sending it.
type CapturingMailer struct {
	mu   sync.Mutex
	sent []utils.EmailMessage
	Err  error
}

func (m *CapturingMailer) Send(_ context.Context, msg utils.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *CapturingMailer) Sent() []utils.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]utils.EmailMessage(nil), m.sent...)
}

// LastCodeFor extracts the six-digit code from the newest message to email.
func (m *CapturingMailer) LastCodeFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].ToEmail == email {
			return sixDigits.FindString(m.sent[i].PlainText)
		}
	}
	return ""
}

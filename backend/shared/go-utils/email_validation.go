package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/mail"
	"strings"

	"github.com/sendgrid/sendgrid-go"
)

// EmailValidator decides whether an address is worth sending a code to.
//
//   • syntax is always checked with net/mail
//   • CheckMX adds an MX lookup on the domain
//   • UseSendGrid adds SendGrid's paid deliverability verdict ("valid" or "risky" pass)
type EmailValidator struct {
	SendGridAPIKey string
	CheckMX        bool
	UseSendGrid    bool

	lookupMX func(ctx context.Context, domain string) ([]*net.MX, error)
}

func NewEmailValidator(sendGridAPIKey string, checkMX, useSendGrid bool) *EmailValidator {
	return &EmailValidator{
		SendGridAPIKey: sendGridAPIKey,
		CheckMX:        checkMX,
		UseSendGrid:    useSendGrid && sendGridAPIKey != "",
		lookupMX:       net.DefaultResolver.LookupMX,
	}
}

// isValidEmailSyntax does RFC-5322-*ish* syntax only (no DNS)
func isValidEmailSyntax(e string) bool {
	addr, err := mail.ParseAddress(e)
	return err == nil && addr.Address == e
}

// Deliverable returns false for addresses that fail any enabled check.
// SendGrid or network errors are returned so the caller can decide.
func (v *EmailValidator) Deliverable(ctx context.Context, email string) (bool, error) {
	if !isValidEmailSyntax(email) {
		return false, nil
	}
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return false, nil
	}

	if v.CheckMX {
		lookup := v.lookupMX
		if lookup == nil {
			lookup = net.DefaultResolver.LookupMX
		}
		mx, err := lookup(ctx, parts[1])
		if err != nil || len(mx) == 0 {
			return false, nil
		}
	}

	if v.UseSendGrid {
		return v.sendGridVerdict(email)
	}
	return true, nil
}

func (v *EmailValidator) sendGridVerdict(email string) (bool, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return false, err
	}
	req := sendgrid.GetRequest(v.SendGridAPIKey, "/v3/validations/email", "https://api.sendgrid.com")
	req.Method = "POST"
	req.Body = body

	resp, err := sendgrid.API(req)
	if err != nil {
		return false, fmt.Errorf("%w: sendgrid validation: %v", ErrExternalServiceFailure, err)
	}

	switch resp.StatusCode {
	case 200:
		var sg struct {
			Result struct {
				Verdict string `json:"verdict"`
			} `json:"result"`
		}
		if jsonErr := json.Unmarshal([]byte(resp.Body), &sg); jsonErr != nil {
			return false, fmt.Errorf("sendgrid JSON decode: %w", jsonErr)
		}
		verdict := strings.ToLower(sg.Result.Verdict)
		return verdict == "valid" || verdict == "risky", nil
	case 400: // SendGrid treats syntactically bad addresses as 400
		return false, nil
	default:
		return false, fmt.Errorf("%w: sendgrid validation status %d", ErrExternalServiceFailure, resp.StatusCode)
	}
}

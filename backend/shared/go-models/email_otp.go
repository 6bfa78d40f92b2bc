package models

import "time"

type OTPPurpose string

const (
	OTPPurposeVerifyEmail   OTPPurpose = "verify_email"
	OTPPurposeResetPassword OTPPurpose = "reset_password"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeVerifyEmail || p == OTPPurposeResetPassword
}

// EmailOTP is the single live one-time code for an (email, purpose) pair.
// Only the code's hash is kept.
type EmailOTP struct {
	Email     string
	Purpose   OTPPurpose
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	CreatedAt time.Time
}

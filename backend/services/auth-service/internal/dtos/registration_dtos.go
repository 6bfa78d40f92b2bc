package dtos

// ----------------------
// Registration
// ----------------------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Bio      string `json:"bio" validate:"max=500"`
}

// ----------------------
// Email Verification
// ----------------------

// EmailRequest is the body of resend-verification and forgot-password.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

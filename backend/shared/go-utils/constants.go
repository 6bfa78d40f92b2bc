package utils

const (
	OrganizationName                      = "Katara"
	BrandName                             = "KataraLM"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// One-time code purposes.
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"
)

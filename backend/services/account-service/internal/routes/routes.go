package routes

const (
	Health = "/health"

	Me               = "/me"
	MeChangePassword = "/me/change-password"

	Contact = "/contact"

	LegalTerms   = "/legal/terms"
	LegalPrivacy = "/legal/privacy"
)

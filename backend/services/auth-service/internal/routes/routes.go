package routes

const (
	// Health
	Health = "/health"

	// Auth (base)
	AuthBase = "/auth"

	AuthRegister           = "/auth/register"
	AuthResendVerification = "/auth/resend-verification"
	AuthVerifyEmail        = "/auth/verify-email"
	AuthLogin              = "/auth/login"
	AuthRefresh            = "/auth/refresh"
	AuthLogout             = "/auth/logout"
	AuthForgotPassword     = "/auth/forgot-password"
	AuthResetPassword      = "/auth/reset-password"
)

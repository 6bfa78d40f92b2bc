package dtos

type LoginRequest struct {
	// Identifier is either the email or the username.
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=128"`
}

type TokenResponse struct {
	OK           bool   `json:"ok"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ----------------------
// Refresh Token / Logout
// ----------------------

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=2048"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=2048"`
}

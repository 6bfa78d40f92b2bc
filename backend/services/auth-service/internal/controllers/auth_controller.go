package controllers

import (
	"errors"
	"net/http"

	"github.com/katara/mono-repo/backend/services/auth-service/internal/dtos"
	"github.com/katara/mono-repo/backend/services/auth-service/internal/services"
	shared_dtos "github.com/katara/mono-repo/backend/shared/go-dtos"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

var validate = shared_dtos.NewValidator()

// ---------------------------------------------------------------------
// Registration / verification
// ---------------------------------------------------------------------

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	err := c.authService.Register(r.Context(), req, utils.ClientIP(r))
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{
			OK:      true,
			Message: "We sent you a code to verify your email.",
		})
	case errors.Is(err, utils.ErrEmailExists):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeConflict, "Email is already registered", nil)
	case errors.Is(err, utils.ErrUsernameExists):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeConflict, "Username is already taken", nil)
	case errors.Is(err, utils.ErrInvalidEmail):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Email address cannot receive mail", nil)
	default:
		respondServiceError(w, err, "Registration failed")
	}
}

func (c *AuthController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dtos.EmailRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}
	if err := c.authService.ResendVerification(r.Context(), req.Email, utils.ClientIP(r)); err != nil {
		// Enumeration-safe: the caller always sees success.
		utils.Logger.WithError(err).Error("Resend verification failed")
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{OK: true})
}

func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dtos.VerifyEmailRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	pair, err := c.authService.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		respondServiceError(w, err, "Verification failed")
		return
	}
	respondTokens(w, pair)
}

// ---------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	pair, err := c.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondServiceError(w, err, "Login failed")
		return
	}
	respondTokens(w, pair)
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dtos.RefreshTokenRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	pair, err := c.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err, "Refresh failed")
		return
	}
	respondTokens(w, pair)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req dtos.LogoutRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}
	if err := c.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		respondServiceError(w, err, "Logout failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{OK: true})
}

// ---------------------------------------------------------------------
// Password recovery
// ---------------------------------------------------------------------

func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dtos.EmailRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}
	if err := c.authService.ForgotPassword(r.Context(), req.Email, utils.ClientIP(r)); err != nil {
		utils.Logger.WithError(err).Error("Forgot password failed")
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{OK: true})
}

func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dtos.ResetPasswordRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}
	if err := c.authService.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondServiceError(w, err, "Password reset failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{OK: true})
}

// ---------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------

func respondTokens(w http.ResponseWriter, pair *services.TokenPair) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.TokenResponse{
		OK:           true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// respondServiceError maps service errors onto the public error codes.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case services.IsInvalidCode(err):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidCode, "Invalid or expired code", nil, err)
	case errors.Is(err, services.ErrTooManyAttempts):
		utils.RespondErrorWithCode(w, http.StatusTooManyRequests, utils.ErrCodeTooManyAttempts, "Too many attempts. Request a new code.", nil)
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid credentials", nil)
	case errors.Is(err, utils.ErrEmailNotVerified):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeEmailNotVerified, "Your email is not verified yet", nil)
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrTokenRevoked):
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, utils.ErrRateLimitExceeded):
		utils.RespondErrorWithCode(w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded, "Too many requests. Please try again later.", nil)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, fallback, nil, err)
	}
}

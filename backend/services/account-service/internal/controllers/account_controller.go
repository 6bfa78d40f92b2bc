package controllers

import (
	"errors"
	"net/http"

	"github.com/katara/mono-repo/backend/services/account-service/internal/dtos"
	"github.com/katara/mono-repo/backend/services/account-service/internal/services"
	shared_dtos "github.com/katara/mono-repo/backend/shared/go-dtos"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var validate = shared_dtos.NewValidator()

type AccountController struct {
	accountService *services.AccountService
	publicBaseURL  string
}

func NewAccountController(accountService *services.AccountService, publicBaseURL string) *AccountController {
	return &AccountController{accountService: accountService, publicBaseURL: publicBaseURL}
}

// GetMeHandler => GET /me
func (c *AccountController) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing user ID in context", nil)
		return
	}

	user, err := c.accountService.GetUserByID(r.Context(), userID)
	if err != nil && !errors.Is(err, utils.ErrUserNotFound) {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to retrieve user", nil, err)
		return
	}
	if user == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "User not found", nil)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.NewMeFromModel(user, c.publicBaseURL))
}

// PatchMeHandler => PATCH /me
func (c *AccountController) PatchMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing user ID in context", nil)
		return
	}

	var req dtos.PatchMeRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	err := c.accountService.PatchProfile(r.Context(), userID, req)
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{OK: true})
	case errors.Is(err, utils.ErrUsernameExists):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeConflict, "Username is already taken", nil)
	case errors.Is(err, utils.ErrUserNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "User not found", nil)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Profile was modified concurrently, retry", nil)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to update profile", nil, err)
	}
}

// ChangePasswordHandler => POST /me/change-password
func (c *AccountController) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing user ID in context", nil)
		return
	}

	var req dtos.ChangePasswordRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	err := c.accountService.ChangePassword(r.Context(), userID, req)
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, shared_dtos.OKResponse{OK: true})
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidCredentials, "Current password is incorrect", nil)
	case errors.Is(err, utils.ErrUserNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "User not found", nil)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to change password", nil, err)
	}
}

package dtos

import (
	"path"

	"github.com/google/uuid"

	"github.com/katara/mono-repo/backend/shared/go-models"
)

type MeResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	AvatarURL  *string   `json:"avatar_url"`
	IsVerified bool      `json:"is_verified"`
}

// NewMeFromModel builds the public profile. Avatars are served from
// <baseURL>/uploads/avatars/<file>.
func NewMeFromModel(u *models.User, baseURL string) MeResponse {
	resp := MeResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Bio:        u.Bio,
		IsVerified: u.IsVerified,
	}
	if u.AvatarPath != nil && *u.AvatarPath != "" {
		url := baseURL + "/uploads/avatars/" + path.Base(*u.AvatarPath)
		resp.AvatarURL = &url
	}
	return resp
}

// PatchMeRequest is a partial update; absent fields are left unchanged.
type PatchMeRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=128"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

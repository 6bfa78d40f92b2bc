// go-models/user.go

package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Versioned

	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"is_verified"`
	Bio          string    `json:"bio"`
	AvatarPath   *string   `json:"avatar_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) GetID() string {
	return u.ID.String()
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Username   *string
	Bio        *string
	AvatarPath *string
}

func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Bio == nil && p.AvatarPath == nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a stored refresh token. Only the sha256 hash of the
// signed token is persisted.
type RefreshToken struct {
	TokenHash string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(rt.ExpiresAt)
}

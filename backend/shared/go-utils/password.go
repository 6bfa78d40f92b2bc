// go-utils/password.go
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// PasswordHasher peppers passwords before handing them to bcrypt.
//
// The pepper is applied as HMAC-SHA256(pepper, password) so the bcrypt input
// stays at 44 bytes, well under bcrypt's 72 byte limit, regardless of how long
// the password or the pepper is.
type PasswordHasher struct {
	pepper []byte
	cost   int
}

func NewPasswordHasher(pepper string, cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{pepper: []byte(pepper), cost: cost}
}

func (h *PasswordHasher) peppered(password string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// Hash generates a bcrypt hash of the peppered password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(bytes), nil
}

// Check compares a plaintext password with a stored hash. The comparison
// itself is bcrypt's constant-time compare.
func (h *PasswordHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password))
	return err == nil
}

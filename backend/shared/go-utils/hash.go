// go-utils/hash.go

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashToken returns the hex SHA-256 digest stored in place of a raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// HashVerificationCode binds a one-time code to its address and purpose:
// hex(sha256("email|purpose|code|pepper")) with the email lower-cased.
func HashVerificationCode(email, purpose, code, pepper string) string {
	raw := strings.ToLower(email) + "|" + purpose + "|" + code + "|" + pepper
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

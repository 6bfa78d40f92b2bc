package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// NormalizeEmail is the canonical stored form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

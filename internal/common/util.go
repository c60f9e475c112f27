package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// MakeRandHexString returns size random bytes encoded as hex, so the result
// is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Normalize lowercases and trims a free-text attribute so stored values and
// search criteria compare equal.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

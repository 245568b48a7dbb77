package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewAuthToken returns a cryptographically secure random token string.
// 20 bytes of entropy encoded as 40 hex characters; the value is opaque
// to clients and stored verbatim so issuance can be idempotent.
func NewAuthToken() (string, error) {
	return randomHex(20)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

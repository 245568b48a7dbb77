package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAuthToken(t *testing.T) {
	tok, err := NewAuthToken()
	require.NoError(t, err)
	require.Len(t, tok, 40)

	_, err = hex.DecodeString(tok)
	require.NoError(t, err, "token must be hex")
}

func TestNewAuthTokenUnique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		tok, err := NewAuthToken()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token generated")
		seen[tok] = struct{}{}
	}
}

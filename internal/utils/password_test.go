package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("swordfish-42", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "swordfish-42", hash)

	require.True(t, VerifyPassword(hash, "swordfish-42"))
	require.False(t, VerifyPassword(hash, "Swordfish-42"))
	require.False(t, VerifyPassword(hash, ""))
}

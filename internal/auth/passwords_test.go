package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("horse-staple-battery-9X")
	require.NoError(t, err)
	require.NotEqual(t, "horse-staple-battery-9X", hash)

	assert.True(t, CheckPassword(hash, "horse-staple-battery-9X"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Error(t, ValidatePasswordStrength("abc", 50))
	assert.Error(t, ValidatePasswordStrength("aaaaaaaaaaaaaaaa", 50))
	assert.NoError(t, ValidatePasswordStrength("horse-staple-battery-9X", 50))
}

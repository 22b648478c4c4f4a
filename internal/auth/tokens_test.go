package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
}

func TestParseExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)

	token, err := tm.Generate(42)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate(42)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	_, err := tm.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

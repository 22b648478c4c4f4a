package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

type stubResolver struct {
	users map[int]models.User
}

func (s stubResolver) GetUser(ctx context.Context, userID int) (models.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return models.User{}, repositories.ErrUserNotFound
}

func TestVerifyResolvesCurrentUser(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	v := NewVerifier(tm, stubResolver{users: map[int]models.User{
		7: {ID: 7, Username: "fern"},
	}})

	token, err := tm.Generate(7)
	require.NoError(t, err)

	user, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "fern", user.Username)
}

func TestVerifyDeletedUser(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	v := NewVerifier(tm, stubResolver{users: map[int]models.User{}})

	token, err := tm.Generate(7)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyBadToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	v := NewVerifier(tm, stubResolver{})

	_, err := v.Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

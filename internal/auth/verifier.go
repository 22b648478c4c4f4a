package auth

import (
	"context"
	"errors"

	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

// UserResolver is the subset of the user repository the verifier needs.
type UserResolver interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
}

// Verifier validates a bearer credential and re-resolves the subject from
// the store on every call, so revoked or deleted accounts fail immediately.
type Verifier struct {
	tokens *TokenManager
	users  UserResolver
}

func NewVerifier(tokens *TokenManager, users UserResolver) *Verifier {
	return &Verifier{tokens: tokens, users: users}
}

// Verify returns the current user record for a valid token.
func (v *Verifier) Verify(ctx context.Context, token string) (models.User, error) {
	claims, err := v.tokens.Parse(token)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	user, err := v.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, err
	}
	return user, nil
}

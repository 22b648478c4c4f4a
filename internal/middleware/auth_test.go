package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"plantspace/internal/auth"
	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

type stubUsers struct {
	user models.User
	ok   bool
}

func (s stubUsers) GetUser(ctx context.Context, userID int) (models.User, error) {
	if s.ok && s.user.ID == userID {
		return s.user, nil
	}
	return models.User{}, repositories.ErrUserNotFound
}

func setupAuthedRouter(verifier *auth.Verifier, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := RequireAuth(verifier)
	if optional {
		mw = OptionalAuth(verifier)
	}
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt(UserIDKey)})
	})
	return r
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthedRouter(auth.NewVerifier(tm, stubUsers{}), false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	verifier := auth.NewVerifier(tm, stubUsers{user: models.User{ID: 7}, ok: true})
	router := setupAuthedRouter(verifier, false)

	token, err := tm.Generate(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthedRouter(auth.NewVerifier(tm, stubUsers{}), false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthedRouter(auth.NewVerifier(tm, stubUsers{}), true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"user_id":0`)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/auth"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "userID"
	// UserKey is the gin context key holding the resolved user record.
	UserKey = "user"
)

// RequireAuth validates the Authorization header and aborts with 401 when
// the credential is missing, malformed, expired, or the subject is gone.
func RequireAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "missing or malformed authorization header",
			})
			return
		}

		user, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a valid credential is present but
// lets anonymous requests through. Used by endpoints that only personalize
// output.
func OptionalAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if ok {
			if user, err := verifier.Verify(c.Request.Context(), token); err == nil {
				c.Set(UserIDKey, user.ID)
				c.Set(UserKey, user)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

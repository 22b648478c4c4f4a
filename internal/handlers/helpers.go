package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"plantspace/internal/middleware"
	"plantspace/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination resolves page/limit query params to an offset and limit.
func pagination(c *gin.Context) (offset, limit int) {
	page := atoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit = atoiDefault(c.Query("limit"), defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// currentUserID returns the authenticated user id, or 0 for anonymous
// requests under OptionalAuth.
func currentUserID(c *gin.Context) int {
	return c.GetInt(middleware.UserIDKey)
}

// currentUser returns the resolved user record set by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(middleware.UserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		fail(c, 400, ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

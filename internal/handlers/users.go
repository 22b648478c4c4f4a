package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

// UserHandler manages public profiles, search, and follows.
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Get returns a user's public profile. With OptionalAuth the is_following
// flag reflects the viewer.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID, currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Search matches usernames and display names.
func (h *UserHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}

	_, limit := pagination(c)
	users, err := h.users.SearchUsers(c.Request.Context(), query, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "search failed")
		return
	}
	if users == nil {
		users = []models.PublicProfile{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Follow records the caller following the target user.
func (h *UserHandler) Follow(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.users.Follow(c.Request.Context(), currentUserID(c), targetID)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, repositories.ErrSelfFollow):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot follow yourself")
	case errors.Is(err, repositories.ErrAlreadyFollow):
		fail(c, http.StatusConflict, ErrCodeConflict, "already following")
	case errors.Is(err, repositories.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not follow user")
	}
}

// Unfollow removes a follow edge.
func (h *UserHandler) Unfollow(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.users.Unfollow(c.Request.Context(), currentUserID(c), targetID)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, repositories.ErrNotFollowing):
		fail(c, http.StatusConflict, ErrCodeConflict, "not following")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not unfollow user")
	}
}

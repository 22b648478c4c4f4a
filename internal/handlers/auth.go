package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/auth"
	"plantspace/internal/repositories"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// AuthHandler manages registration, login, and the caller's own profile.
type AuthHandler struct {
	users      repositories.UserRepository
	tokens     *auth.TokenManager
	minEntropy float64
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, tokens *auth.TokenManager, minEntropy float64) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, minEntropy: minEntropy}
}

// Register creates an account and returns a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	var violations []string
	if !usernamePattern.MatchString(req.Username) {
		violations = append(violations, "username must be 3-32 characters of letters, digits, or underscore")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		violations = append(violations, "email is not a valid address")
	}
	if err := auth.ValidatePasswordStrength(req.Password, h.minEntropy); err != nil {
		violations = append(violations, "password is too weak")
	}
	if len(violations) > 0 {
		failValidation(c, violations)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create account")
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Username, strings.ToLower(req.Email), hash)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			fail(c, http.StatusConflict, ErrCodeConflict, "username or email already taken")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create account")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Profile returns the caller's own account record.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's mutable profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return
	}

	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	displayName := user.DisplayName
	bio := user.Bio
	avatarURL := user.AvatarURL
	if req.DisplayName != nil {
		displayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		bio = *req.Bio
	}
	if req.AvatarURL != nil {
		avatarURL = *req.AvatarURL
	}

	var violations []string
	if len(displayName) > 64 {
		violations = append(violations, "display_name must be at most 64 characters")
	}
	if len(bio) > 500 {
		violations = append(violations, "bio must be at most 500 characters")
	}
	if len(violations) > 0 {
		failValidation(c, violations)
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, displayName, bio, avatarURL)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update profile")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdatePassword verifies the current password before replacing it.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "current_password and new_password are required")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "current password is incorrect")
		return
	}
	if err := auth.ValidatePasswordStrength(req.NewPassword, h.minEntropy); err != nil {
		failValidation(c, []string{"password is too weak"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update password")
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, hash); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update password")
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

// VerificationHandler manages the verified-badge workflow: users request,
// admins resolve, approval flips the badge on the user record.
type VerificationHandler struct {
	moderation repositories.ModerationRepository
	users      repositories.UserRepository
}

// NewVerificationHandler builds a VerificationHandler.
func NewVerificationHandler(moderation repositories.ModerationRepository, users repositories.UserRepository) *VerificationHandler {
	return &VerificationHandler{moderation: moderation, users: users}
}

// Request files a verification request for the caller.
func (h *VerificationHandler) Request(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return
	}
	if user.IsVerified {
		fail(c, http.StatusConflict, ErrCodeConflict, "already verified")
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	request, err := h.moderation.CreateVerificationRequest(c.Request.Context(), user.ID, strings.TrimSpace(req.Note))
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationPending) {
			fail(c, http.StatusConflict, ErrCodeConflict, "a verification request is already pending")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not file verification request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// List returns verification requests for admins.
func (h *VerificationHandler) List(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	status := c.Query("status")
	switch status {
	case "", models.VerificationStatusPending, models.VerificationStatusApproved, models.VerificationStatusRejected:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid status filter")
		return
	}

	offset, limit := pagination(c)
	requests, err := h.moderation.ListVerificationRequests(c.Request.Context(), status, offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load verification requests")
		return
	}
	if requests == nil {
		requests = []models.VerificationRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Resolve approves or rejects a pending request. Approval sets the verified
// badge on the user.
func (h *VerificationHandler) Resolve(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil ||
		(req.Status != models.VerificationStatusApproved && req.Status != models.VerificationStatusRejected) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be approved or rejected")
		return
	}

	resolved, err := h.moderation.ResolveVerificationRequest(c.Request.Context(), requestID, currentUserID(c), req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no pending request with that id")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not resolve request")
		return
	}

	if resolved.Status == models.VerificationStatusApproved {
		if err := h.users.SetVerified(c.Request.Context(), resolved.UserID, true); err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update verified badge")
			return
		}
	}

	c.JSON(http.StatusOK, resolved)
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/models"
	"plantspace/internal/observability"
	"plantspace/internal/repositories"
)

// ModerationHandler manages content reports. Admin routes re-check the
// is_admin flag from the freshly resolved user record, never from a token.
type ModerationHandler struct {
	moderation repositories.ModerationRepository
	publisher  observability.Publisher
}

// NewModerationHandler builds a ModerationHandler.
func NewModerationHandler(moderation repositories.ModerationRepository, publisher observability.Publisher) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, publisher: publisher}
}

func requireAdmin(c *gin.Context) bool {
	user, ok := currentUser(c)
	if !ok || !user.IsAdmin {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "admin access required")
		return false
	}
	return true
}

// CreateReport files a report against a post, comment, or user.
func (h *ModerationHandler) CreateReport(c *gin.Context) {
	var req struct {
		TargetType string `json:"target_type"`
		TargetID   int    `json:"target_id"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	reason := strings.TrimSpace(req.Reason)
	var violations []string
	switch req.TargetType {
	case models.ReportTargetPost, models.ReportTargetComment, models.ReportTargetUser:
	default:
		violations = append(violations, "target_type must be post, comment, or user")
	}
	if req.TargetID < 1 {
		violations = append(violations, "target_id is required")
	}
	if reason == "" {
		violations = append(violations, "reason is required")
	}
	if len(violations) > 0 {
		failValidation(c, violations)
		return
	}

	report, err := h.moderation.CreateReport(c.Request.Context(), currentUserID(c), req.TargetType, req.TargetID, reason)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not file report")
		return
	}

	_ = h.publisher.Publish(c.Request.Context(), "moderation.report",
		observability.NewEnvelope("report_filed", report))

	c.JSON(http.StatusCreated, report)
}

// ListReports returns reports for admins, optionally filtered by status.
func (h *ModerationHandler) ListReports(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	status := c.Query("status")
	if status != "" && !validReportStatus(status) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid status filter")
		return
	}

	offset, limit := pagination(c)
	reports, err := h.moderation.ListReports(c.Request.Context(), status, offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load reports")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// UpdateReport transitions a report's status.
func (h *ModerationHandler) UpdateReport(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	reportID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !validReportStatus(req.Status) || req.Status == models.ReportStatusPending {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be reviewed, dismissed, or actioned")
		return
	}

	report, err := h.moderation.UpdateReportStatus(c.Request.Context(), reportID, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrReportNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "report not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func validReportStatus(status string) bool {
	switch status {
	case models.ReportStatusPending, models.ReportStatusReviewed,
		models.ReportStatusDismissed, models.ReportStatusActioned:
		return true
	}
	return false
}

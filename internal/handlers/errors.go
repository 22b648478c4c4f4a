package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/middleware"
)

// Stable, machine-readable error codes returned in the error envelope.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// fail aborts the request with a structured error. Server-side failures are
// logged with request context; the client only ever sees the generic
// message, never internal error detail.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Msg(msg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   msg,
	})
}

// failValidation reports every violated constraint in one response.
func failValidation(c *gin.Context, violations []string) {
	fail(c, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(violations, "; "))
}

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plantspace/internal/middleware"
	"plantspace/internal/mocks"
	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

func setupVerificationRouter(handler *VerificationHandler, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.UserKey, user)
		c.Next()
	})
	r.POST("/verification/request", handler.Request)
	r.GET("/verification/requests", handler.List)
	r.PUT("/verification/requests/:id", handler.Resolve)
	return r
}

func TestVerificationRequestSuccess(t *testing.T) {
	moderation := new(mocks.ModerationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	handler := NewVerificationHandler(moderation, users)
	router := setupVerificationRouter(handler, models.User{ID: 1})

	moderation.On("CreateVerificationRequest", mock.Anything, 1, "plant botanist").
		Return(models.VerificationRequest{ID: 2, UserID: 1, Status: models.VerificationStatusPending}, nil).Once()

	body := bytes.NewBufferString(`{"note":"plant botanist"}`)
	req := httptest.NewRequest(http.MethodPost, "/verification/request", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	moderation.AssertExpectations(t)
}

func TestVerificationRequestAlreadyVerified(t *testing.T) {
	moderation := new(mocks.ModerationRepositoryMock)
	handler := NewVerificationHandler(moderation, new(mocks.UserRepositoryMock))
	router := setupVerificationRouter(handler, models.User{ID: 1, IsVerified: true})

	req := httptest.NewRequest(http.MethodPost, "/verification/request", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	moderation.AssertNotCalled(t, "CreateVerificationRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationRequestAlreadyPending(t *testing.T) {
	moderation := new(mocks.ModerationRepositoryMock)
	handler := NewVerificationHandler(moderation, new(mocks.UserRepositoryMock))
	router := setupVerificationRouter(handler, models.User{ID: 1})

	moderation.On("CreateVerificationRequest", mock.Anything, 1, "").
		Return(models.VerificationRequest{}, repositories.ErrVerificationPending).Once()

	req := httptest.NewRequest(http.MethodPost, "/verification/request", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	moderation.AssertExpectations(t)
}

func TestVerificationApproveSetsBadge(t *testing.T) {
	moderation := new(mocks.ModerationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	handler := NewVerificationHandler(moderation, users)
	router := setupVerificationRouter(handler, models.User{ID: 1, IsAdmin: true})

	moderation.On("ResolveVerificationRequest", mock.Anything, 2, 1, models.VerificationStatusApproved).
		Return(models.VerificationRequest{ID: 2, UserID: 5, Status: models.VerificationStatusApproved}, nil).Once()
	users.On("SetVerified", mock.Anything, 5, true).Return(nil).Once()

	body := bytes.NewBufferString(`{"status":"approved"}`)
	req := httptest.NewRequest(http.MethodPut, "/verification/requests/2", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	moderation.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestVerificationRejectLeavesBadge(t *testing.T) {
	moderation := new(mocks.ModerationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	handler := NewVerificationHandler(moderation, users)
	router := setupVerificationRouter(handler, models.User{ID: 1, IsAdmin: true})

	moderation.On("ResolveVerificationRequest", mock.Anything, 2, 1, models.VerificationStatusRejected).
		Return(models.VerificationRequest{ID: 2, UserID: 5, Status: models.VerificationStatusRejected}, nil).Once()

	body := bytes.NewBufferString(`{"status":"rejected"}`)
	req := httptest.NewRequest(http.MethodPut, "/verification/requests/2", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertNotCalled(t, "SetVerified", mock.Anything, mock.Anything, mock.Anything)
	moderation.AssertExpectations(t)
}

func TestVerificationResolveRequiresAdmin(t *testing.T) {
	moderation := new(mocks.ModerationRepositoryMock)
	handler := NewVerificationHandler(moderation, new(mocks.UserRepositoryMock))
	router := setupVerificationRouter(handler, models.User{ID: 1})

	body := bytes.NewBufferString(`{"status":"approved"}`)
	req := httptest.NewRequest(http.MethodPut, "/verification/requests/2", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	moderation.AssertNotCalled(t, "ResolveVerificationRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

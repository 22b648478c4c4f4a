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

func setupCommentRouter(handler *CommentHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	r.POST("/comments/posts/:postId/comments", handler.Create)
	r.GET("/comments/posts/:postId/comments", handler.List)
	r.DELETE("/comments/:commentId", handler.Delete)
	return r
}

func TestCreateCommentSuccess(t *testing.T) {
	comments := new(mocks.CommentRepositoryMock)
	posts := new(mocks.PostRepositoryMock)
	router := setupCommentRouter(NewCommentHandler(comments, posts), 1)

	comments.On("CreateComment", mock.Anything, 5, 1, "nice fern").
		Return(models.Comment{ID: 3, PostID: 5, AuthorID: 1, Content: "nice fern"}, nil).Once()

	body := bytes.NewBufferString(`{"content":"nice fern"}`)
	req := httptest.NewRequest(http.MethodPost, "/comments/posts/5/comments", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	comments.AssertExpectations(t)
}

func TestCreateCommentMissingPost(t *testing.T) {
	comments := new(mocks.CommentRepositoryMock)
	router := setupCommentRouter(NewCommentHandler(comments, new(mocks.PostRepositoryMock)), 1)

	comments.On("CreateComment", mock.Anything, 99, 1, "hello").
		Return(models.Comment{}, repositories.ErrPostNotFound).Once()

	body := bytes.NewBufferString(`{"content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/comments/posts/99/comments", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	comments.AssertExpectations(t)
}

func TestDeleteCommentByPostAuthor(t *testing.T) {
	comments := new(mocks.CommentRepositoryMock)
	posts := new(mocks.PostRepositoryMock)
	router := setupCommentRouter(NewCommentHandler(comments, posts), 1)

	// comment belongs to user 2, but the post belongs to the caller
	comments.On("GetComment", mock.Anything, 3).
		Return(models.Comment{ID: 3, PostID: 5, AuthorID: 2}, nil).Once()
	posts.On("GetPost", mock.Anything, 5, 1).
		Return(models.FeedPost{Post: models.Post{ID: 5, AuthorID: 1}}, nil).Once()
	comments.On("DeleteComment", mock.Anything, 3).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/comments/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	comments.AssertExpectations(t)
	posts.AssertExpectations(t)
}

func TestDeleteCommentForbidden(t *testing.T) {
	comments := new(mocks.CommentRepositoryMock)
	posts := new(mocks.PostRepositoryMock)
	router := setupCommentRouter(NewCommentHandler(comments, posts), 1)

	comments.On("GetComment", mock.Anything, 3).
		Return(models.Comment{ID: 3, PostID: 5, AuthorID: 2}, nil).Once()
	posts.On("GetPost", mock.Anything, 5, 1).
		Return(models.FeedPost{Post: models.Post{ID: 5, AuthorID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/comments/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	comments.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)
}

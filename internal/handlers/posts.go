package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

const maxPostLength = 2000

// PostHandler manages posts, the feed, and likes.
type PostHandler struct {
	posts repositories.PostRepository
}

// NewPostHandler builds a PostHandler.
func NewPostHandler(posts repositories.PostRepository) *PostHandler {
	return &PostHandler{posts: posts}
}

// Feed returns posts newest first. Anonymous viewers get liked=false.
func (h *PostHandler) Feed(c *gin.Context) {
	offset, limit := pagination(c)
	posts, err := h.posts.Feed(c.Request.Context(), currentUserID(c), offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load feed")
		return
	}
	if posts == nil {
		posts = []models.FeedPost{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Create stores a new post.
func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	var violations []string
	if content == "" && req.ImageURL == "" {
		violations = append(violations, "post needs content or an image")
	}
	if len(content) > maxPostLength {
		violations = append(violations, "content must be at most 2000 characters")
	}
	if len(violations) > 0 {
		failValidation(c, violations)
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), currentUserID(c), content, req.ImageURL)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Get returns one post with author fields.
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete removes the caller's own post.
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.posts.DeletePost(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			// The row exists under another author or not at all; either way
			// the caller may not delete it.
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete post")
		return
	}

	c.Status(http.StatusNoContent)
}

// Like records a like on a post.
func (h *PostHandler) Like(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.posts.Like(c.Request.Context(), postID, currentUserID(c))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, repositories.ErrAlreadyLiked):
		fail(c, http.StatusConflict, ErrCodeConflict, "already liked")
	case errors.Is(err, repositories.ErrPostNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not like post")
	}
}

// Unlike removes a like from a post.
func (h *PostHandler) Unlike(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.posts.Unlike(c.Request.Context(), postID, currentUserID(c))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, repositories.ErrNotLiked):
		fail(c, http.StatusConflict, ErrCodeConflict, "not liked")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not unlike post")
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

const maxCommentLength = 1000

// CommentHandler manages comments on posts.
type CommentHandler struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
}

// NewCommentHandler builds a CommentHandler.
func NewCommentHandler(comments repositories.CommentRepository, posts repositories.PostRepository) *CommentHandler {
	return &CommentHandler{comments: comments, posts: posts}
}

// Create adds a comment to a post.
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	var violations []string
	if content == "" {
		violations = append(violations, "content is required")
	}
	if len(content) > maxCommentLength {
		violations = append(violations, "content must be at most 1000 characters")
	}
	if len(violations) > 0 {
		failValidation(c, violations)
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), postID, currentUserID(c), content)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// List returns a post's comments with author fields.
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	offset, limit := pagination(c)
	comments, err := h.comments.ListComments(c.Request.Context(), postID, offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load comments")
		return
	}
	if comments == nil {
		comments = []models.CommentWithAuthor{}
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Delete removes a comment. The comment author and the post author may both
// delete; anyone else is forbidden.
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	comment, err := h.comments.GetComment(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load comment")
		return
	}

	if comment.AuthorID != userID {
		post, err := h.posts.GetPost(c.Request.Context(), comment.PostID, userID)
		if err != nil || post.AuthorID != userID {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not allowed to delete this comment")
			return
		}
	}

	if err := h.comments.DeleteComment(c.Request.Context(), commentID); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}

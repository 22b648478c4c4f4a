package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plantspace/internal/media"
)

// MediaHandler accepts image uploads for posts, messages, and avatars.
type MediaHandler struct {
	store *media.Store
}

// NewMediaHandler builds a MediaHandler.
func NewMediaHandler(store *media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// Upload stores a multipart file and returns its public URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart field file is required")
		return
	}

	url, err := h.store.Save(header)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrUnsupportedType):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unsupported file type")
		case errors.Is(err, media.ErrTooLarge):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file exceeds the 10MB limit")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not store upload")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

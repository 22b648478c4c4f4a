package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantspace/internal/models"
	"plantspace/internal/relay"
	"plantspace/internal/repositories"
)

// MessageHandler manages the durable side of direct messaging. Messages
// created here land in the same ledger the relay writes, and are broadcast
// through the same hub so connected devices see REST sends live.
type MessageHandler struct {
	messages repositories.MessageRepository
	hub      *relay.Hub
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages repositories.MessageRepository, hub *relay.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, hub: hub}
}

// Conversations lists message threads with unread counts, newest first.
func (h *MessageHandler) Conversations(c *gin.Context) {
	convs, err := h.messages.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load conversations")
		return
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// Thread returns the message history with one user, newest first.
func (h *MessageHandler) Thread(c *gin.Context) {
	otherID, ok := pathID(c, "otherUserId")
	if !ok {
		return
	}

	offset, limit := pagination(c)
	msgs, err := h.messages.GetThread(c.Request.Context(), currentUserID(c), otherID, offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load messages")
		return
	}
	if msgs == nil {
		msgs = []models.MessageWithSender{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Create persists a message and broadcasts it to connected devices.
func (h *MessageHandler) Create(c *gin.Context) {
	var req struct {
		ReceiverID int    `json:"receiver_id"`
		Content    string `json:"content"`
		ImageURL   string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	userID := currentUserID(c)
	content := strings.TrimSpace(req.Content)

	var violations []string
	if req.ReceiverID < 1 {
		violations = append(violations, "receiver_id is required")
	}
	if content == "" && req.ImageURL == "" {
		violations = append(violations, "message needs content or an image")
	}
	if req.ReceiverID == userID {
		violations = append(violations, "cannot message yourself")
	}
	if len(violations) > 0 {
		failValidation(c, violations)
		return
	}

	msg, err := h.messages.CreateMessage(c.Request.Context(), userID, req.ReceiverID, content, req.ImageURL)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "receiver not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not store message")
		return
	}

	h.hub.Broadcast(relay.ConversationKey(userID, req.ReceiverID), relay.EventNewMessage, msg)
	h.hub.Broadcast(relay.PersonalGroup(req.ReceiverID), relay.EventMessageNotification, relay.MessageNotification{
		SenderID: userID,
		Message:  msg,
	})

	c.JSON(http.StatusCreated, msg)
}

// MarkRead stamps read_at on unread messages from the other user.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	otherID, ok := pathID(c, "otherUserId")
	if !ok {
		return
	}

	updated, err := h.messages.MarkRead(c.Request.Context(), currentUserID(c), otherID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not mark messages read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Delete removes a message the caller sent.
func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, ok := pathID(c, "messageId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	msg, err := h.messages.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load message")
		return
	}
	if msg.SenderID != userID {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the sender may delete a message")
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete message")
		return
	}

	c.Status(http.StatusNoContent)
}

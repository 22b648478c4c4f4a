package relay

import (
	"encoding/json"

	"plantspace/internal/models"
)

// Inbound event names.
const (
	EventJoin         = "join"
	EventSendMessage  = "send-message"
	EventTypingStart  = "typing-start"
	EventTypingStop   = "typing-stop"
	EventCallOffer    = "call-offer"
	EventCallAnswer   = "call-answer"
	EventCallReject   = "call-reject"
	EventCallEnd      = "call-end"
	EventICECandidate = "ice-candidate"
)

// Outbound event names.
const (
	EventNewMessage          = "new-message"
	EventMessageNotification = "message-notification"
	EventUserTyping          = "user-typing"
	EventIncomingCall        = "incoming-call"
	EventCallAnswered        = "call-answered"
	EventCallRejected        = "call-rejected"
	EventCallEnded           = "call-ended"
	EventError               = "error"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinPayload names the counterpart of the conversation to join.
type JoinPayload struct {
	UserID int `json:"user_id"`
}

// SendMessagePayload carries one direct message.
type SendMessagePayload struct {
	ReceiverID int    `json:"receiver_id"`
	Content    string `json:"content"`
	ImageURL   string `json:"image_url"`
}

// TypingPayload names the counterpart being typed at.
type TypingPayload struct {
	UserID int `json:"user_id"`
}

// CallOfferPayload starts call signaling toward a callee.
type CallOfferPayload struct {
	CalleeID int             `json:"callee_id"`
	Offer    json.RawMessage `json:"offer"`
	Kind     string          `json:"kind"` // "voice" or "video"
}

// CallAnswerPayload answers a pending offer.
type CallAnswerPayload struct {
	CallerID int             `json:"caller_id"`
	Answer   json.RawMessage `json:"answer"`
}

// CallTargetPayload addresses reject/end at the counterpart.
type CallTargetPayload struct {
	UserID int `json:"user_id"`
}

// ICECandidatePayload relays one ICE candidate to the counterpart.
type ICECandidatePayload struct {
	UserID    int             `json:"user_id"`
	Candidate json.RawMessage `json:"candidate"`
}

// MessageNotification wakes devices that have not joined the conversation.
type MessageNotification struct {
	SenderID int                      `json:"sender_id"`
	Message  models.MessageWithSender `json:"message"`
}

// UserTyping is delivered to the counterpart's personal group.
type UserTyping struct {
	UserID int  `json:"user_id"`
	Typing bool `json:"typing"`
}

// IncomingCall is delivered to the callee's personal group.
type IncomingCall struct {
	CallerID int             `json:"caller_id"`
	Offer    json.RawMessage `json:"offer"`
	Kind     string          `json:"kind"`
}

// CallAnswered is delivered to the caller's personal group.
type CallAnswered struct {
	Answer json.RawMessage `json:"answer"`
}

// ICECandidate is the forwarded candidate payload.
type ICECandidate struct {
	Candidate json.RawMessage `json:"candidate"`
}

// ErrorEvent is sent back to the originating connection only.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

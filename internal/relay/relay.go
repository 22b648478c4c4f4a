package relay

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"plantspace/internal/observability"
	"plantspace/internal/repositories"
)

// Relay routes a fixed vocabulary of events between connections. Chat
// messages are persisted synchronously before broadcast; everything else is
// fire-and-forget forwarding between personal and conversation groups.
type Relay struct {
	hub       *Hub
	messages  repositories.MessageRepository
	publisher observability.Publisher
	log       zerolog.Logger
}

// New constructs a Relay.
func New(hub *Hub, messages repositories.MessageRepository, publisher observability.Publisher, log zerolog.Logger) *Relay {
	return &Relay{hub: hub, messages: messages, publisher: publisher, log: log}
}

// Hub exposes the routing state, used at connect/disconnect time.
func (r *Relay) Hub() *Hub {
	return r.hub
}

// HandleEvent dispatches one inbound frame from a connected client.
func (r *Relay) HandleEvent(ctx context.Context, c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.sendError(c, "bad_payload", "malformed event envelope")
		return
	}

	observability.IncRelayEvent(env.Event)

	switch env.Event {
	case EventJoin:
		r.handleJoin(c, env.Data)
	case EventSendMessage:
		r.handleSendMessage(ctx, c, env.Data)
	case EventTypingStart:
		r.handleTyping(c, env.Data, true)
	case EventTypingStop:
		r.handleTyping(c, env.Data, false)
	case EventCallOffer:
		r.handleCallOffer(c, env.Data)
	case EventCallAnswer:
		r.handleCallAnswer(c, env.Data)
	case EventCallReject:
		r.handleCallTarget(c, env.Data, EventCallRejected)
	case EventCallEnd:
		r.handleCallTarget(c, env.Data, EventCallEnded)
	case EventICECandidate:
		r.handleICECandidate(c, env.Data)
	default:
		r.sendError(c, "unknown_event", "unknown event: "+env.Event)
	}
}

func (r *Relay) handleJoin(c *Client, data json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == 0 {
		r.sendError(c, "bad_payload", "join requires a counterpart user_id")
		return
	}
	r.hub.Join(c, ConversationKey(c.UserID, p.UserID))
}

func (r *Relay) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var p SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.ReceiverID == 0 {
		r.sendError(c, "bad_payload", "send-message requires a receiver_id")
		return
	}
	if p.ReceiverID == c.UserID {
		r.sendError(c, "bad_payload", "cannot message yourself")
		return
	}
	if p.Content == "" && p.ImageURL == "" {
		r.sendError(c, "bad_payload", "message needs content or an image")
		return
	}

	// Persist before any broadcast. A store failure is reported only to
	// the sender; the receiver never observes the attempt.
	msg, err := r.messages.CreateMessage(ctx, c.UserID, p.ReceiverID, p.Content, p.ImageURL)
	if err != nil {
		r.log.Error().Err(err).Int("sender_id", c.UserID).Msg("relay message persist failed")
		r.sendError(c, "message_failed", "could not store message")
		return
	}

	r.hub.Broadcast(ConversationKey(c.UserID, p.ReceiverID), EventNewMessage, msg)
	r.hub.Broadcast(PersonalGroup(p.ReceiverID), EventMessageNotification, MessageNotification{
		SenderID: c.UserID,
		Message:  msg,
	})

	if err := r.publisher.Publish(ctx, "notifications.message",
		observability.NewEnvelope("message_sent", MessageNotification{SenderID: c.UserID, Message: msg})); err != nil {
		r.log.Warn().Err(err).Msg("notification publish failed")
	}
}

func (r *Relay) handleTyping(c *Client, data json.RawMessage, typing bool) {
	var p TypingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == 0 {
		r.sendError(c, "bad_payload", "typing requires a counterpart user_id")
		return
	}
	// Only the counterpart's devices see typing state, never the sender's.
	r.hub.Broadcast(PersonalGroup(p.UserID), EventUserTyping, UserTyping{
		UserID: c.UserID,
		Typing: typing,
	})
}

func (r *Relay) handleCallOffer(c *Client, data json.RawMessage) {
	var p CallOfferPayload
	if err := json.Unmarshal(data, &p); err != nil || p.CalleeID == 0 {
		r.sendError(c, "bad_payload", "call-offer requires a callee_id")
		return
	}
	r.hub.Broadcast(PersonalGroup(p.CalleeID), EventIncomingCall, IncomingCall{
		CallerID: c.UserID,
		Offer:    p.Offer,
		Kind:     p.Kind,
	})
}

func (r *Relay) handleCallAnswer(c *Client, data json.RawMessage) {
	var p CallAnswerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.CallerID == 0 {
		r.sendError(c, "bad_payload", "call-answer requires a caller_id")
		return
	}
	r.hub.Broadcast(PersonalGroup(p.CallerID), EventCallAnswered, CallAnswered{Answer: p.Answer})
}

func (r *Relay) handleCallTarget(c *Client, data json.RawMessage, outbound string) {
	var p CallTargetPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == 0 {
		r.sendError(c, "bad_payload", "call signaling requires a counterpart user_id")
		return
	}
	r.hub.Broadcast(PersonalGroup(p.UserID), outbound, nil)
}

func (r *Relay) handleICECandidate(c *Client, data json.RawMessage) {
	var p ICECandidatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == 0 {
		r.sendError(c, "bad_payload", "ice-candidate requires a counterpart user_id")
		return
	}
	r.hub.Broadcast(PersonalGroup(p.UserID), EventICECandidate, ICECandidate{Candidate: p.Candidate})
}

func (r *Relay) sendError(c *Client, code, message string) {
	observability.IncRelayEvent(EventError)
	if err := c.Send(EventError, ErrorEvent{Code: code, Message: message}); err != nil {
		c.Close()
		r.hub.Remove(c)
	}
}

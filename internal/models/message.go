package models

import "time"

// Message is a direct message between two users. ReadAt is nil until the
// receiver marks the thread read. The store enforces sender <> receiver.
type Message struct {
	ID         int        `db:"id" json:"id"`
	SenderID   int        `db:"sender_id" json:"sender_id"`
	ReceiverID int        `db:"receiver_id" json:"receiver_id"`
	Content    string     `db:"content" json:"content"`
	ImageURL   string     `db:"image_url" json:"image_url,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ReadAt     *time.Time `db:"read_at" json:"read_at"`
}

// MessageWithSender is a message joined with the sender's profile fields,
// the shape broadcast to conversation groups.
type MessageWithSender struct {
	Message
	SenderUsername  string `db:"sender_username" json:"sender_username"`
	SenderAvatarURL string `db:"sender_avatar_url" json:"sender_avatar_url"`
	SenderVerified  bool   `db:"sender_verified" json:"sender_verified"`
}

// Conversation summarizes a message thread for the conversations list.
// Unread counts are recomputed from the store on every call.
type Conversation struct {
	PartnerID       int       `db:"partner_id" json:"partner_id"`
	PartnerUsername string    `db:"partner_username" json:"partner_username"`
	PartnerAvatar   string    `db:"partner_avatar" json:"partner_avatar"`
	LastContent     string    `db:"last_content" json:"last_content"`
	LastImageURL    string    `db:"last_image_url" json:"last_image_url,omitempty"`
	LastSenderID    int       `db:"last_sender_id" json:"last_sender_id"`
	LastAt          time.Time `db:"last_at" json:"last_at"`
	UnreadCount     int       `db:"unread_count" json:"unread_count"`
}

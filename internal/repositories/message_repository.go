package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"plantspace/internal/models"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrSelfMessage     = errors.New("cannot message yourself")
)

// MessageRepository abstracts direct-message persistence. The REST layer
// and the relay both write through CreateMessage, so they share one ledger.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID, receiverID int, content, imageURL string) (models.MessageWithSender, error)
	GetThread(ctx context.Context, userID, otherUserID int, offset, limit int) ([]models.MessageWithSender, error)
	ListConversations(ctx context.Context, userID int) ([]models.Conversation, error)
	MarkRead(ctx context.Context, userID, otherUserID int) (int, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	DeleteMessage(ctx context.Context, messageID, senderID int) error
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageWithSenderColumns = `m.id, m.sender_id, m.receiver_id, m.content, m.image_url, m.created_at, m.read_at,
    u.username AS sender_username, u.avatar_url AS sender_avatar_url, u.is_verified AS sender_verified`

// CreateMessage stores a message and returns it joined with sender profile
// fields, the exact shape broadcast over the relay.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID, receiverID int, content, imageURL string) (models.MessageWithSender, error) {
	if senderID == receiverID {
		return models.MessageWithSender{}, ErrSelfMessage
	}

	var msg models.MessageWithSender
	err := r.db.GetContext(ctx, &msg,
		`WITH inserted AS (
            INSERT INTO messages (sender_id, receiver_id, content, image_url)
            VALUES ($1, $2, $3, $4)
            RETURNING id, sender_id, receiver_id, content, image_url, created_at, read_at
        )
        SELECT `+messageWithSenderColumns+`
        FROM inserted m JOIN users u ON u.id = m.sender_id`,
		senderID, receiverID, content, imageURL)
	if isForeignKeyViolation(err) {
		return models.MessageWithSender{}, ErrUserNotFound
	}
	return msg, err
}

// GetThread returns the messages between two users, newest first.
func (r *MessageRepo) GetThread(ctx context.Context, userID, otherUserID int, offset, limit int) ([]models.MessageWithSender, error) {
	var msgs []models.MessageWithSender
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT `+messageWithSenderColumns+`
         FROM messages m JOIN users u ON u.id = m.sender_id
         WHERE (m.sender_id=$1 AND m.receiver_id=$2) OR (m.sender_id=$2 AND m.receiver_id=$1)
         ORDER BY m.created_at DESC OFFSET $3 LIMIT $4`,
		userID, otherUserID, offset, limit)
	return msgs, err
}

// ListConversations returns one row per messaging partner with the latest
// message and the unread count, recomputed on every call.
func (r *MessageRepo) ListConversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs,
		`WITH partners AS (
            SELECT DISTINCT CASE WHEN sender_id=$1 THEN receiver_id ELSE sender_id END AS partner_id
            FROM messages WHERE sender_id=$1 OR receiver_id=$1
        ),
        last_messages AS (
            SELECT DISTINCT ON (p.partner_id)
                p.partner_id, m.content AS last_content, m.image_url AS last_image_url,
                m.sender_id AS last_sender_id, m.created_at AS last_at
            FROM partners p
            JOIN messages m ON (m.sender_id=$1 AND m.receiver_id=p.partner_id)
                OR (m.sender_id=p.partner_id AND m.receiver_id=$1)
            ORDER BY p.partner_id, m.created_at DESC
        )
        SELECT lm.partner_id, u.username AS partner_username, u.avatar_url AS partner_avatar,
            lm.last_content, lm.last_image_url, lm.last_sender_id, lm.last_at,
            (SELECT COUNT(*) FROM messages
                WHERE sender_id=lm.partner_id AND receiver_id=$1 AND read_at IS NULL) AS unread_count
        FROM last_messages lm
        JOIN users u ON u.id = lm.partner_id
        ORDER BY lm.last_at DESC`,
		userID)
	return convs, err
}

// MarkRead stamps read_at on unread messages from otherUserID to userID and
// reports how many rows changed.
func (r *MessageRepo) MarkRead(ctx context.Context, userID, otherUserID int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at=NOW()
         WHERE sender_id=$2 AND receiver_id=$1 AND read_at IS NULL`,
		userID, otherUserID)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return int(count), err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT id, sender_id, receiver_id, content, image_url, created_at, read_at
         FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// DeleteMessage removes a message owned by senderID.
func (r *MessageRepo) DeleteMessage(ctx context.Context, messageID, senderID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id=$1 AND sender_id=$2`, messageID, senderID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

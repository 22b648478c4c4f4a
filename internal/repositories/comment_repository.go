package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"plantspace/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository abstracts comment persistence.
type CommentRepository interface {
	CreateComment(ctx context.Context, postID, authorID int, content string) (models.Comment, error)
	GetComment(ctx context.Context, commentID int) (models.Comment, error)
	ListComments(ctx context.Context, postID int, offset, limit int) ([]models.CommentWithAuthor, error)
	DeleteComment(ctx context.Context, commentID int) error
}

// CommentRepo is a sqlx implementation of CommentRepository.
type CommentRepo struct {
	db *sqlx.DB
}

// NewCommentRepo constructs a CommentRepo.
func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// CreateComment inserts a comment on a post.
func (r *CommentRepo) CreateComment(ctx context.Context, postID, authorID int, content string) (models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment,
		`INSERT INTO comments (post_id, author_id, content) VALUES ($1, $2, $3)
         RETURNING id, post_id, author_id, content, created_at`,
		postID, authorID, content)
	if isForeignKeyViolation(err) {
		return models.Comment{}, ErrPostNotFound
	}
	return comment, err
}

// GetComment retrieves a single comment.
func (r *CommentRepo) GetComment(ctx context.Context, commentID int) (models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment,
		`SELECT id, post_id, author_id, content, created_at FROM comments WHERE id=$1`, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrCommentNotFound
	}
	return comment, err
}

// ListComments returns a post's comments newest first, with author fields.
func (r *CommentRepo) ListComments(ctx context.Context, postID int, offset, limit int) ([]models.CommentWithAuthor, error) {
	var comments []models.CommentWithAuthor
	err := r.db.SelectContext(ctx, &comments,
		`SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
            u.username AS author_username, u.avatar_url AS author_avatar_url
         FROM comments c JOIN users u ON u.id = c.author_id
         WHERE c.post_id=$1
         ORDER BY c.created_at DESC OFFSET $2 LIMIT $3`,
		postID, offset, limit)
	return comments, err
}

// DeleteComment removes a comment. Authorization happens in the handler
// because both the comment author and the post author may delete.
func (r *CommentRepo) DeleteComment(ctx context.Context, commentID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, commentID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCommentNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"plantspace/internal/models"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrAlreadyLiked = errors.New("already liked")
	ErrNotLiked     = errors.New("not liked")
)

// PostRepository abstracts post and like persistence.
type PostRepository interface {
	CreatePost(ctx context.Context, authorID int, content, imageURL string) (models.Post, error)
	GetPost(ctx context.Context, postID int, viewerID int) (models.FeedPost, error)
	DeletePost(ctx context.Context, postID int, authorID int) error
	Feed(ctx context.Context, viewerID int, offset, limit int) ([]models.FeedPost, error)
	Like(ctx context.Context, postID, userID int) error
	Unlike(ctx context.Context, postID, userID int) error
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// CreatePost inserts a post and returns the stored row.
func (r *PostRepo) CreatePost(ctx context.Context, authorID int, content, imageURL string) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`INSERT INTO posts (author_id, content, image_url) VALUES ($1, $2, $3)
         RETURNING id, author_id, content, image_url, likes_count, comments_count, created_at`,
		authorID, content, imageURL)
	return post, err
}

const feedPostColumns = `p.id, p.author_id, p.content, p.image_url, p.likes_count, p.comments_count, p.created_at,
    u.username AS author_username, u.avatar_url AS author_avatar_url, u.is_verified AS author_verified,
    EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS liked`

// GetPost fetches one post joined with its author. viewerID 0 is anonymous.
func (r *PostRepo) GetPost(ctx context.Context, postID int, viewerID int) (models.FeedPost, error) {
	var post models.FeedPost
	err := r.db.GetContext(ctx, &post,
		`SELECT `+feedPostColumns+` FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id=$2`,
		viewerID, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FeedPost{}, ErrPostNotFound
	}
	return post, err
}

// DeletePost removes a post owned by authorID.
func (r *PostRepo) DeletePost(ctx context.Context, postID int, authorID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1 AND author_id=$2`, postID, authorID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Feed returns posts ordered by creation time descending, offset-paginated.
func (r *PostRepo) Feed(ctx context.Context, viewerID int, offset, limit int) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+feedPostColumns+`
         FROM posts p JOIN users u ON u.id = p.author_id
         ORDER BY p.created_at DESC OFFSET $2 LIMIT $3`,
		viewerID, offset, limit)
	return posts, err
}

// Like records a like. Duplicate likes conflict; missing posts are not found.
func (r *PostRepo) Like(ctx context.Context, postID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if isUniqueViolation(err) {
		return ErrAlreadyLiked
	}
	if isForeignKeyViolation(err) {
		return ErrPostNotFound
	}
	return err
}

// Unlike removes a like.
func (r *PostRepo) Unlike(ctx context.Context, postID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`, postID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotLiked
	}
	return nil
}

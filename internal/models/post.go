package models

import "time"

// Post is a feed entry. Like and comment counters are denormalized columns
// maintained by database triggers.
type Post struct {
	ID            int       `db:"id" json:"id"`
	AuthorID      int       `db:"author_id" json:"author_id"`
	Content       string    `db:"content" json:"content"`
	ImageURL      string    `db:"image_url" json:"image_url,omitempty"`
	LikesCount    int       `db:"likes_count" json:"likes_count"`
	CommentsCount int       `db:"comments_count" json:"comments_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FeedPost is a post joined with its author's profile fields and, for an
// authenticated viewer, whether the viewer has liked it.
type FeedPost struct {
	Post
	AuthorUsername  string `db:"author_username" json:"author_username"`
	AuthorAvatarURL string `db:"author_avatar_url" json:"author_avatar_url"`
	AuthorVerified  bool   `db:"author_verified" json:"author_verified"`
	Liked           bool   `db:"liked" json:"liked"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        int       `db:"id" json:"id"`
	PostID    int       `db:"post_id" json:"post_id"`
	AuthorID  int       `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentWithAuthor joins a comment with author profile fields.
type CommentWithAuthor struct {
	Comment
	AuthorUsername  string `db:"author_username" json:"author_username"`
	AuthorAvatarURL string `db:"author_avatar_url" json:"author_avatar_url"`
}

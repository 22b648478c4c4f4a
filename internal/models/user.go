package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID             int       `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	Bio            string    `db:"bio" json:"bio"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	IsAdmin        bool      `db:"is_admin" json:"is_admin"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PublicProfile is the view of a user returned to other users.
type PublicProfile struct {
	ID             int       `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	Bio            string    `db:"bio" json:"bio"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// Filled only when the viewer is authenticated.
	IsFollowing bool `db:"is_following" json:"is_following"`
}

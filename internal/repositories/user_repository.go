package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"plantspace/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already taken")
	ErrAlreadyFollow = errors.New("already following")
	ErrNotFollowing  = errors.New("not following")
	ErrSelfFollow    = errors.New("cannot follow yourself")
)

const uniqueViolation = "23505"

// UserRepository abstracts user and follow persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetUser(ctx context.Context, userID int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetProfile(ctx context.Context, userID int, viewerID int) (models.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID int, displayName, bio, avatarURL string) (models.User, error)
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.PublicProfile, error)
	Follow(ctx context.Context, followerID, followeeID int) error
	Unfollow(ctx context.Context, followerID, followeeID int) error
	SetVerified(ctx context.Context, userID int, verified bool) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, display_name, bio, avatar_url,
    is_admin, is_verified, followers_count, following_count, created_at, updated_at`

// CreateUser inserts a new account.
func (r *UserRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO users (username, email, password_hash, display_name)
         VALUES ($1, $2, $3, $1) RETURNING `+userColumns,
		username, email, passwordHash)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateUser
	}
	return user, err
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail fetches a user by email for login.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetProfile returns the public view of a user. viewerID 0 means anonymous;
// otherwise is_following is resolved for the viewer.
func (r *UserRepo) GetProfile(ctx context.Context, userID int, viewerID int) (models.PublicProfile, error) {
	var profile models.PublicProfile
	err := r.db.GetContext(ctx, &profile,
		`SELECT id, username, display_name, bio, avatar_url, is_verified,
            followers_count, following_count, created_at,
            EXISTS(SELECT 1 FROM follows WHERE follower_id=$2 AND followee_id=users.id) AS is_following
         FROM users WHERE id=$1`, userID, viewerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PublicProfile{}, ErrUserNotFound
	}
	return profile, err
}

// UpdateProfile updates mutable profile fields and returns the fresh row.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, displayName, bio, avatarURL string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`UPDATE users SET display_name=$2, bio=$3, avatar_url=$4, updated_at=NOW()
         WHERE id=$1 RETURNING `+userColumns,
		userID, displayName, bio, avatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SearchUsers matches usernames and display names by prefix/substring.
func (r *UserRepo) SearchUsers(ctx context.Context, query string, limit int) ([]models.PublicProfile, error) {
	var users []models.PublicProfile
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, username, display_name, bio, avatar_url, is_verified,
            followers_count, following_count, created_at, FALSE AS is_following
         FROM users
         WHERE username ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%'
         ORDER BY username ASC LIMIT $2`, query, limit)
	return users, err
}

// Follow records a follow edge. Duplicate follows conflict.
func (r *UserRepo) Follow(ctx context.Context, followerID, followeeID int) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)`, followerID, followeeID)
	if isUniqueViolation(err) {
		return ErrAlreadyFollow
	}
	if isForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

// Unfollow removes a follow edge.
func (r *UserRepo) Unfollow(ctx context.Context, followerID, followeeID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id=$1 AND followee_id=$2`, followerID, followeeID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFollowing
	}
	return nil
}

// SetVerified flips the verified badge.
func (r *UserRepo) SetVerified(ctx context.Context, userID int, verified bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified=$2, updated_at=NOW() WHERE id=$1`, userID, verified)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

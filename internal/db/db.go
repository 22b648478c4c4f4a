package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username VARCHAR(32) NOT NULL UNIQUE,
            email VARCHAR(255) NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            display_name VARCHAR(64) NOT NULL DEFAULT '',
            bio TEXT NOT NULL DEFAULT '',
            avatar_url TEXT NOT NULL DEFAULT '',
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            followers_count INT NOT NULL DEFAULT 0,
            following_count INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS posts (
            id SERIAL PRIMARY KEY,
            author_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            image_url TEXT NOT NULL DEFAULT '',
            likes_count INT NOT NULL DEFAULT 0,
            comments_count INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS post_likes (
            post_id INT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY(post_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS follows (
            follower_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            followee_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY(follower_id, followee_id),
            CHECK (follower_id <> followee_id)
        );`,
		`CREATE TABLE IF NOT EXISTS comments (
            id SERIAL PRIMARY KEY,
            post_id INT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
            author_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            sender_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            receiver_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL DEFAULT '',
            image_url TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            read_at TIMESTAMPTZ,
            CHECK (sender_id <> receiver_id)
        );`,
		`CREATE TABLE IF NOT EXISTS reports (
            id SERIAL PRIMARY KEY,
            reporter_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            target_type VARCHAR(16) NOT NULL CHECK (target_type IN ('post', 'comment', 'user')),
            target_id INT NOT NULL,
            reason TEXT NOT NULL,
            status VARCHAR(16) NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'reviewed', 'dismissed', 'actioned')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS verification_requests (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            note TEXT NOT NULL DEFAULT '',
            status VARCHAR(16) NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'approved', 'rejected')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            reviewed_at TIMESTAMPTZ,
            reviewer_id INT REFERENCES users(id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages (sender_id, receiver_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, created_at);`,

		// Denormalized counters are maintained by triggers so listing
		// endpoints never need aggregate subqueries.
		`CREATE OR REPLACE FUNCTION bump_likes_count() RETURNS TRIGGER AS $$
        BEGIN
            IF TG_OP = 'INSERT' THEN
                UPDATE posts SET likes_count = likes_count + 1 WHERE id = NEW.post_id;
                RETURN NEW;
            END IF;
            UPDATE posts SET likes_count = likes_count - 1 WHERE id = OLD.post_id;
            RETURN OLD;
        END;
        $$ LANGUAGE plpgsql;`,
		`DROP TRIGGER IF EXISTS trg_post_likes_count ON post_likes;`,
		`CREATE TRIGGER trg_post_likes_count
            AFTER INSERT OR DELETE ON post_likes
            FOR EACH ROW EXECUTE FUNCTION bump_likes_count();`,

		`CREATE OR REPLACE FUNCTION bump_comments_count() RETURNS TRIGGER AS $$
        BEGIN
            IF TG_OP = 'INSERT' THEN
                UPDATE posts SET comments_count = comments_count + 1 WHERE id = NEW.post_id;
                RETURN NEW;
            END IF;
            UPDATE posts SET comments_count = comments_count - 1 WHERE id = OLD.post_id;
            RETURN OLD;
        END;
        $$ LANGUAGE plpgsql;`,
		`DROP TRIGGER IF EXISTS trg_comments_count ON comments;`,
		`CREATE TRIGGER trg_comments_count
            AFTER INSERT OR DELETE ON comments
            FOR EACH ROW EXECUTE FUNCTION bump_comments_count();`,

		`CREATE OR REPLACE FUNCTION bump_follow_counts() RETURNS TRIGGER AS $$
        BEGIN
            IF TG_OP = 'INSERT' THEN
                UPDATE users SET following_count = following_count + 1 WHERE id = NEW.follower_id;
                UPDATE users SET followers_count = followers_count + 1 WHERE id = NEW.followee_id;
                RETURN NEW;
            END IF;
            UPDATE users SET following_count = following_count - 1 WHERE id = OLD.follower_id;
            UPDATE users SET followers_count = followers_count - 1 WHERE id = OLD.followee_id;
            RETURN OLD;
        END;
        $$ LANGUAGE plpgsql;`,
		`DROP TRIGGER IF EXISTS trg_follow_counts ON follows;`,
		`CREATE TRIGGER trg_follow_counts
            AFTER INSERT OR DELETE ON follows
            FOR EACH ROW EXECUTE FUNCTION bump_follow_counts();`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the content tables if needed. Keeping the migration in
// code keeps the stack self-contained so docker-compose can bootstrap
// everything.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS guest_stories (
	id TEXT PRIMARY KEY,
	guest_name TEXT NOT NULL,
	story_title TEXT NOT NULL,
	story_content TEXT NOT NULL,
	relationship TEXT NOT NULL DEFAULT '',
	favorite_memory TEXT NOT NULL DEFAULT '',
	wish_for_couple TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	featured BOOLEAN NOT NULL DEFAULT FALSE,
	submitted_at TIMESTAMPTZ NOT NULL,
	reviewed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_guest_stories_approved ON guest_stories(approved, submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_guest_stories_category ON guest_stories(category);

CREATE TABLE IF NOT EXISTS guestbook_entries (
	id TEXT PRIMARY KEY,
	author_name TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	submitted_at TIMESTAMPTZ NOT NULL,
	reviewed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_guestbook_approved ON guestbook_entries(approved, submitted_at DESC);

CREATE TABLE IF NOT EXISTS album_photos (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	object_key TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	width INTEGER NOT NULL DEFAULT 0,
	height INTEGER NOT NULL DEFAULT 0,
	caption TEXT NOT NULL DEFAULT '',
	uploaded_by TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	submitted_at TIMESTAMPTZ NOT NULL,
	reviewed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_album_photos_approved ON album_photos(approved, submitted_at DESC);

CREATE TABLE IF NOT EXISTS map_locations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS visit_logs (
	id TEXT PRIMARY KEY,
	ip TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	visited_at TIMESTAMPTZ NOT NULL
);`
	_, err := pool.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

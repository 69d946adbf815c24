package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema mirrors what Migrate produces for PostgreSQL, for deployments that
// manage DDL outside of GORM.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS works (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    creator TEXT,
    description TEXT,
    category TEXT NOT NULL CHECK (category IN ('albums', 'books', 'movies')),
    publication_year BIGINT,
    user_id BIGINT REFERENCES users(id),
    vote_count BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_work_category_title ON works(category, title);
CREATE INDEX IF NOT EXISTS idx_works_category ON works(category);
CREATE INDEX IF NOT EXISTS idx_works_user_id ON works(user_id);
CREATE INDEX IF NOT EXISTS idx_works_vote_count ON works(vote_count);

CREATE TABLE IF NOT EXISTS votes (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    work_id BIGINT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vote_user_work ON votes(user_id, work_id);
CREATE INDEX IF NOT EXISTS idx_votes_work_id ON votes(work_id);
`

// ApplySchema creates the tables on a PostgreSQL connection if they do not exist.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}
	return nil
}

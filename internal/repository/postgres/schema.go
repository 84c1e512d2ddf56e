package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL mirrors the memory store layout. JSONB columns hold the
// structured note, the question list and the submitted answers.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	full_name     TEXT NOT NULL,
	phone         TEXT NOT NULL,
	country       TEXT NOT NULL,
	city          TEXT NOT NULL,
	date_of_birth TEXT NOT NULL,
	experience    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS applications (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL REFERENCES users(id),
	role            TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'pending',
	passport_url    TEXT,
	credentials_url TEXT,
	additional_info JSONB,
	test_score      INTEGER,
	test_completed  BOOLEAN NOT NULL DEFAULT false,
	submitted_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_applications_submitted_at ON applications (submitted_at DESC);

CREATE TABLE IF NOT EXISTS tests (
	id             TEXT PRIMARY KEY,
	application_id TEXT NOT NULL REFERENCES applications(id),
	role           TEXT NOT NULL,
	questions      JSONB NOT NULL,
	answers        JSONB,
	score          INTEGER,
	completed      BOOLEAN NOT NULL DEFAULT false,
	started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tests_application_id ON tests (application_id);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}

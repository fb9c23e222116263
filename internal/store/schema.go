package store

import "github.com/jmoiron/sqlx"

// schema is applied in full at every open; CREATE IF NOT EXISTS makes it
// idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS fingerprints (
		user_id     TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, fingerprint)
	)`,
	`CREATE TABLE IF NOT EXISTS vocab (
		user_id        TEXT NOT NULL,
		term           TEXT NOT NULL,
		seen_count     INTEGER NOT NULL DEFAULT 0,
		correct_count  INTEGER NOT NULL DEFAULT 0,
		mastery        INTEGER NOT NULL DEFAULT 0,
		last_seen_at   TIMESTAMP NOT NULL,
		next_review_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, term)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id           TEXT PRIMARY KEY,
		xp                INTEGER NOT NULL DEFAULT 0,
		streak_count      INTEGER NOT NULL DEFAULT 0,
		last_active_date  TEXT NOT NULL DEFAULT '',
		lessons_completed INTEGER NOT NULL DEFAULT 0,
		next_lesson_index INTEGER NOT NULL DEFAULT 1,
		active_lesson_id  TEXT NOT NULL DEFAULT '',
		recent_scores     TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		title        TEXT NOT NULL,
		level_tag    TEXT NOT NULL,
		topic        TEXT NOT NULL,
		items        TEXT NOT NULL,
		fingerprint  TEXT NOT NULL,
		status       TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lessons_user_created
		ON lessons (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS lesson_progress (
		lesson_id         TEXT PRIMARY KEY,
		completed_indices TEXT NOT NULL DEFAULT '[]',
		last_index        INTEGER NOT NULL DEFAULT 0
	)`,
}

func createSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

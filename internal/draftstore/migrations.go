package draftstore

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all local client tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS drafts (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL,
		latitude     REAL NOT NULL,
		longitude    REAL NOT NULL,
		is_anonymous INTEGER NOT NULL DEFAULT 0,
		images       TEXT NOT NULL DEFAULT '[]',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS issue_cache (
		issue_id   INTEGER PRIMARY KEY,
		payload    TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_drafts_created_at ON drafts(created_at)`,
}

// migrate applies the schema statements in order.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

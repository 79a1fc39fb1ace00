package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the database schema. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"records table", `
			CREATE TABLE IF NOT EXISTS records (
				id TEXT PRIMARY KEY,
				pipeline TEXT NOT NULL,
				stage_value TEXT NOT NULL,
				position INTEGER NOT NULL,
				title TEXT NOT NULL,
				company TEXT NOT NULL DEFAULT '',
				owner TEXT NOT NULL DEFAULT '',
				amount REAL NOT NULL DEFAULT 0,
				currency TEXT NOT NULL DEFAULT 'USD',
				notes TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`},
		{"records index", `
			CREATE INDEX IF NOT EXISTS idx_records_pipeline
			ON records(pipeline, position)
		`},
		{"stage_history table", `
			CREATE TABLE IF NOT EXISTS stage_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				record_id TEXT NOT NULL,
				from_value TEXT NOT NULL,
				to_value TEXT NOT NULL,
				changed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
			)
		`},
		{"stage_history index", `
			CREATE INDEX IF NOT EXISTS idx_stage_history_record
			ON stage_history(record_id, id)
		`},
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}

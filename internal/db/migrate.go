package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the export schema. Every statement is idempotent so it
// is safe to run against an existing export file.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id             TEXT PRIMARY KEY,
		source         TEXT NOT NULL,
		row_index      INTEGER NOT NULL,
		work_date      TEXT,
		project        TEXT,
		truck          TEXT,
		reporter       TEXT,
		action_text    TEXT,
		hours_worked   REAL,
		activity       TEXT NOT NULL
		               CHECK(activity IN ('lashed_fiber','pulled_fiber','strand','drive_off','unclassified')),
		quantity       REAL NOT NULL DEFAULT 0,
		quantity_found INTEGER NOT NULL DEFAULT 0 CHECK(quantity_found IN (0,1)),
		quantity_field TEXT,
		UNIQUE(source, row_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_records_date ON records(work_date)`,
	`CREATE INDEX IF NOT EXISTS idx_records_project ON records(project)`,

	`CREATE TABLE IF NOT EXISTS record_participants (
		record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		name      TEXT NOT NULL,
		PRIMARY KEY (record_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_record_participants_name ON record_participants(name)`,

	`CREATE TABLE IF NOT EXISTS record_notes (
		record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
		field     TEXT NOT NULL,
		body      TEXT NOT NULL,
		PRIMARY KEY (record_id, field)
	)`,

	`CREATE TABLE IF NOT EXISTS summaries (
		name       TEXT PRIMARY KEY,
		group_keys TEXT NOT NULL,
		reduction  TEXT NOT NULL
		           CHECK(reduction IN ('hours','quantity','count'))
	)`,

	`CREATE TABLE IF NOT EXISTS summary_rows (
		summary_name TEXT NOT NULL REFERENCES summaries(name) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		key1         TEXT NOT NULL,
		key2         TEXT,
		value        REAL NOT NULL,
		PRIMARY KEY (summary_name, position)
	)`,

	`CREATE TABLE IF NOT EXISTS export_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

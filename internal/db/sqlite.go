package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS session (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	exercise TEXT    NOT NULL,
	weight   REAL    NOT NULL,
	reps     INTEGER NOT NULL,
	rpe      INTEGER NOT NULL DEFAULT 0,
	date     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_exercise ON session(exercise, date);

CREATE TABLE IF NOT EXISTS food (
	name_key    TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	kcal_100    REAL NOT NULL,
	protein_100 REAL NOT NULL,
	carb_100    REAL NOT NULL,
	fat_100     REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS meal (
	id         TEXT PRIMARY KEY,
	date       TEXT NOT NULL,
	food       TEXT NOT NULL,
	quantity_g REAL NOT NULL,
	kcal       REAL NOT NULL,
	protein    REAL NOT NULL,
	carb       REAL NOT NULL,
	fat        REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meal_date ON meal(date);
`

// OpenSQLite opens (and creates, if missing) the embedded SQLite database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// single writer, sqlite serializes writes anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	log.Debugf("sqlite db opened: %s", path)
	return db, nil
}

// MigrateSQLite creates the schema. Safe to run on every startup.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

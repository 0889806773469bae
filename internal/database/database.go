// Package database opens the local SQLite store shared by the audit log
// and the deployment history.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TimeLayout is the stored form of timestamps. The fraction is fixed
// width so text order matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime formats t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp. Values written with a variable
// width fraction are accepted too.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

const (
	appDir = "deployctl"
	dbFile = "deployctl.db"
)

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the database path under the user config directory.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open opens a SQLite database at path in WAL mode with a busy timeout,
// creating the parent directory if needed.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("database: failed to open database: %w", err)
	}
	return db, nil
}

// Migrate runs ddl inside a transaction.
func Migrate(db *sql.DB, ddl string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("database: failed to begin migration: %w", err)
	}
	if _, err := tx.Exec(ddl); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("database: migration failed: %w", err)
	}
	return tx.Commit()
}

// Package history records the deployments created from this machine so
// they can be listed later with "deploy ls".
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/deployctl/internal/database"
)

// ErrNotFound is returned by Get when no record has the given ID.
var ErrNotFound = errors.New("history: record not found")

// Repository defines the persistence interface for deployment records.
type Repository interface {
	// Save inserts (ID == 0) or updates a record.
	Save(record *Record) error
	Get(id int64) (*Record, error)
	// ListRecent returns up to n records, newest first. A non-empty name
	// restricts the result to that project.
	ListRecent(name string, n int) ([]Record, error)
	// DeleteOlderThan removes finished records last updated before now-d.
	DeleteOlderThan(d time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository on the shared SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens the repository at the default database path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the repository at path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if err := database.Migrate(db, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

const schema = `
    CREATE TABLE IF NOT EXISTS deployments (
        id            INTEGER PRIMARY KEY AUTOINCREMENT,
        deployment_id TEXT    NOT NULL DEFAULT '',
        name          TEXT    NOT NULL,
        url           TEXT    NOT NULL DEFAULT '',
        scope         TEXT    NOT NULL DEFAULT '',
        target        TEXT    NOT NULL DEFAULT '',
        status        TEXT    NOT NULL DEFAULT 'pending',
        error_code    TEXT    NOT NULL DEFAULT '',
        error_message TEXT    NOT NULL DEFAULT '',
        created_at    TEXT    NOT NULL,
        updated_at    TEXT    NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_deployments_name ON deployments(name);
    CREATE INDEX IF NOT EXISTS idx_deployments_created ON deployments(created_at);
`

const selectColumns = `id, deployment_id, name, url, scope, target, status,
    error_code, error_message, created_at, updated_at`

func (r *SQLiteRepository) Save(record *Record) error {
	record.UpdatedAt = time.Now().UTC()
	if record.Status == "" {
		record.Status = StatusPending
	}

	if record.ID == 0 {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = record.UpdatedAt
		}
		result, err := r.db.Exec(`
            INSERT INTO deployments (deployment_id, name, url, scope, target, status,
                error_code, error_message, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.DeploymentID, record.Name, record.URL, record.Scope, record.Target,
			record.Status, record.ErrorCode, record.ErrorMessage,
			database.FormatTime(record.CreatedAt), database.FormatTime(record.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("history: insert failed: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("history: failed to get last insert ID: %w", err)
		}
		record.ID = id
		return nil
	}

	result, err := r.db.Exec(`
        UPDATE deployments SET deployment_id=?, name=?, url=?, scope=?, target=?,
            status=?, error_code=?, error_message=?, updated_at=?
        WHERE id=?`,
		record.DeploymentID, record.Name, record.URL, record.Scope, record.Target,
		record.Status, record.ErrorCode, record.ErrorMessage,
		database.FormatTime(record.UpdatedAt), record.ID,
	)
	if err != nil {
		return fmt.Errorf("history: update failed: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, record.ID)
	}
	return nil
}

func (r *SQLiteRepository) Get(id int64) (*Record, error) {
	row := r.db.QueryRow("SELECT "+selectColumns+" FROM deployments WHERE id = ?", id)
	record, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	return record, nil
}

func (r *SQLiteRepository) ListRecent(name string, n int) ([]Record, error) {
	query := "SELECT " + selectColumns + " FROM deployments"
	var args []any
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, n)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := database.FormatTime(time.Now().Add(-d))
	result, err := r.db.Exec(`
        DELETE FROM deployments WHERE status != 'pending' AND updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Record, error) {
	var record Record
	var created, updated string
	err := s.Scan(
		&record.ID, &record.DeploymentID, &record.Name, &record.URL, &record.Scope,
		&record.Target, &record.Status, &record.ErrorCode, &record.ErrorMessage,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}
	record.CreatedAt, _ = database.ParseTime(created)
	record.UpdatedAt, _ = database.ParseTime(updated)
	return &record, nil
}

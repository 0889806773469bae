package auditlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/deployctl/internal/database"
)

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Save(entry *AuditEntry) error
	List(opts ListOptions) ([]AuditEntry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// ListOptions filters List. Zero values match everything.
type ListOptions struct {
	Limit   int
	Command string
	Outcome string
}

// SQLiteRepository implements Repository backed by the local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the audit repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens the audit repository at path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}

	if err := database.Migrate(db, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

const schema = `
    CREATE TABLE IF NOT EXISTS audit_log (
        id            INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp     TEXT    NOT NULL,
        command       TEXT    NOT NULL,
        args          TEXT    NOT NULL DEFAULT '',
        scope         TEXT    NOT NULL DEFAULT '',
        resource_type TEXT    NOT NULL DEFAULT '',
        resource_id   TEXT    NOT NULL DEFAULT '',
        resource_name TEXT    NOT NULL DEFAULT '',
        outcome       TEXT    NOT NULL DEFAULT '',
        error_code    TEXT    NOT NULL DEFAULT '',
        detail        TEXT    NOT NULL DEFAULT '',
        duration_ms   INTEGER NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
    CREATE INDEX IF NOT EXISTS idx_audit_log_command ON audit_log(command);
`

const selectColumns = `id, timestamp, command, args, scope, resource_type, resource_id,
    resource_name, outcome, error_code, detail, duration_ms`

// Save inserts entry and sets its ID. A zero Timestamp is set to now.
func (r *SQLiteRepository) Save(entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO audit_log (timestamp, command, args, scope, resource_type, resource_id,
            resource_name, outcome, error_code, detail, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		database.FormatTime(entry.Timestamp), entry.Command, entry.Args, entry.Scope,
		entry.ResourceType, entry.ResourceID, entry.ResourceName, entry.Outcome,
		entry.ErrorCode, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns matching entries, newest first.
func (r *SQLiteRepository) List(opts ListOptions) ([]AuditEntry, error) {
	var where []string
	var args []any
	if opts.Command != "" {
		where = append(where, "command = ?")
		args = append(args, opts.Command)
	}
	if opts.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, opts.Outcome)
	}

	query := "SELECT " + selectColumns + " FROM audit_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than olderThan and returns how many were removed.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := database.FormatTime(time.Now().Add(-olderThan))
	result, err := r.db.Exec(`DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]AuditEntry, error) {
	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var ts string
		err := rows.Scan(
			&entry.ID, &ts, &entry.Command, &entry.Args, &entry.Scope,
			&entry.ResourceType, &entry.ResourceID, &entry.ResourceName,
			&entry.Outcome, &entry.ErrorCode, &entry.Detail, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = database.ParseTime(ts)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

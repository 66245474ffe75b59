package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Journal persists accepted requests in SQLite so the library owner can
// review them later. Session state is deliberately not journaled; only the
// terminal Request entities are.
type Journal struct {
	db   *sql.DB
	path string
}

// Entry is one journaled request plus its delivery outcome.
type Entry struct {
	Request   Request
	Delivered bool
	Reason    string
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS requests (
	id TEXT PRIMARY KEY,
	requester_user_id TEXT NOT NULL,
	library_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	year INTEGER NOT NULL DEFAULT 0,
	summary TEXT NOT NULL DEFAULT '',
	available INTEGER NOT NULL DEFAULT 0,
	delivered INTEGER NOT NULL DEFAULT 0,
	delivery_reason TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
`

// OpenJournal initializes or connects to the request journal database.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(journalSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Path returns the on-disk location backing the journal.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Record inserts a freshly created request.
func (j *Journal) Record(ctx context.Context, req Request) error {
	if j == nil || j.db == nil {
		return errors.New("journal closed")
	}
	available := 0
	if req.Candidate.Available {
		available = 1
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO requests (id, requester_user_id, library_id, title, year, summary, available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.RequesterUserID, req.Candidate.ID, req.Candidate.Title,
		req.Candidate.Year, req.Candidate.Summary, available,
		req.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// MarkDelivery stores the notification outcome for a journaled request.
func (j *Journal) MarkDelivery(ctx context.Context, requestID string, delivered bool, reason string) error {
	if j == nil || j.db == nil {
		return errors.New("journal closed")
	}
	value := 0
	if delivered {
		value = 1
	}
	result, err := j.db.ExecContext(ctx,
		`UPDATE requests SET delivered = ?, delivery_reason = ? WHERE id = ?`,
		value, reason, requestID,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %s not journaled", requestID)
	}
	return nil
}

// List returns journaled requests newest first, bounded by limit (0 means no
// bound).
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if j == nil || j.db == nil {
		return nil, errors.New("journal closed")
	}
	query := `
		SELECT id, requester_user_id, library_id, title, year, summary, available, delivered, delivery_reason, created_at
		FROM requests ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var available, delivered int
		var createdAt string
		if err := rows.Scan(
			&entry.Request.ID, &entry.Request.RequesterUserID,
			&entry.Request.Candidate.ID, &entry.Request.Candidate.Title,
			&entry.Request.Candidate.Year, &entry.Request.Candidate.Summary,
			&available, &delivered, &entry.Reason, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		entry.Request.Candidate.Available = available == 1
		entry.Delivered = delivered == 1
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			entry.Request.CreatedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return entries, nil
}

// Clear removes every journaled request and reports how many were deleted.
func (j *Journal) Clear(ctx context.Context) (int64, error) {
	if j == nil || j.db == nil {
		return 0, errors.New("journal closed")
	}
	result, err := j.db.ExecContext(ctx, `DELETE FROM requests`)
	if err != nil {
		return 0, fmt.Errorf("clear requests: %w", err)
	}
	return result.RowsAffected()
}

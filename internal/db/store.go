package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Store persists session records and their action logs. The in-memory
// session registry owns the live browser handles; this is history only,
// so the UI can show past sessions after a restart.
type Store struct {
	db *sql.DB
}

// SessionRow is a persisted session record.
type SessionRow struct {
	ID         string
	Driver     string
	CurrentURL string
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

// ActionRow is a persisted action log entry.
type ActionRow struct {
	ID             string
	SessionID      string
	Type           string
	Selector       string
	Text           string
	Success        bool
	ErrorMessage   string
	ScreenshotPath string
	CreatedAt      time.Time
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// InsertSession records a newly created session.
func (s *Store) InsertSession(id, driver string, createdAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, driver, created_at) VALUES (?, ?, ?)`,
		id, driver, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// UpdateSessionURL records the session's current URL after navigation.
func (s *Store) UpdateSessionURL(id, url string) error {
	_, err := s.db.Exec(`UPDATE sessions SET current_url = ? WHERE id = ?`, url, id)
	if err != nil {
		return fmt.Errorf("update session url: %w", err)
	}
	return nil
}

// CloseSession marks a session closed.
func (s *Store) CloseSession(id string, closedAt time.Time) error {
	_, err := s.db.Exec(`UPDATE sessions SET closed_at = ? WHERE id = ?`, closedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, driver, current_url, created_at, closed_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var r SessionRow
		var closedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Driver, &r.CurrentURL, &r.CreatedAt, &closedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if closedAt.Valid {
			t := closedAt.Time
			r.ClosedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AppendAction appends one entry to a session's persisted action log.
func (s *Store) AppendAction(a ActionRow) error {
	_, err := s.db.Exec(
		`INSERT INTO actions (id, session_id, type, selector, text, success, error_message, screenshot_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.Type, a.Selector, a.Text, a.Success, a.ErrorMessage, a.ScreenshotPath, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

// ListActions returns a session's action log in insertion order.
func (s *Store) ListActions(sessionID string) ([]ActionRow, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, type, selector, text, success, error_message, screenshot_path, created_at
		 FROM actions WHERE session_id = ? ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []ActionRow
	for rows.Next() {
		var a ActionRow
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Type, &a.Selector, &a.Text,
			&a.Success, &a.ErrorMessage, &a.ScreenshotPath, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

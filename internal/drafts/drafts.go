// Package drafts keeps client-side convenience state in a local SQLite
// database: unsent composer drafts per dialog and the last opened dialog.
// Nothing in here is marketplace data; the backend remains authoritative
// for everything it serves.
package drafts

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBFileName is the SQLite filename under the app data dir.
const DBFileName = "drafts.db"

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS drafts (
  dialog_id  INTEGER PRIMARY KEY,
  content    TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
`,
	`
CREATE TABLE IF NOT EXISTS app_state (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_drafts_updated_at
ON drafts (updated_at DESC);
`,
}

const lastDialogKey = "last_dialog_id"

// Store wraps the drafts database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the drafts database in dataDir and
// applies migrations.
func Open(dataDir string) (*Store, error) {
	db, err := sql.Open("sqlite3", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open drafts database: %w", err)
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply drafts migration: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDraft upserts the draft text for a dialog. Empty text removes the
// draft instead of storing a blank row.
func (s *Store) SaveDraft(dialogID int64, text string) error {
	if text == "" {
		return s.DeleteDraft(dialogID)
	}

	_, err := s.db.Exec(`
INSERT INTO drafts (dialog_id, content, updated_at) VALUES (?, ?, ?)
ON CONFLICT(dialog_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
`, dialogID, text, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Draft returns the stored draft for a dialog, or "" when none exists.
func (s *Store) Draft(dialogID int64) (string, error) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM drafts WHERE dialog_id = ?`, dialogID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load draft: %w", err)
	}
	return content, nil
}

// DeleteDraft removes a dialog's draft if present.
func (s *Store) DeleteDraft(dialogID int64) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE dialog_id = ?`, dialogID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// SetLastDialog remembers the most recently opened dialog.
func (s *Store) SetLastDialog(dialogID int64) error {
	_, err := s.db.Exec(`
INSERT INTO app_state (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, lastDialogKey, fmt.Sprintf("%d", dialogID))
	if err != nil {
		return fmt.Errorf("save last dialog: %w", err)
	}
	return nil
}

// LastDialog returns the most recently opened dialog id, or 0 when none
// has been recorded.
func (s *Store) LastDialog() (int64, error) {
	var value int64
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, lastDialogKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load last dialog: %w", err)
	}
	return value, nil
}

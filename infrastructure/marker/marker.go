package marker

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a local record of rows already published. The schedule sheet is
// read-only to this system, so without a store like this a crash between
// "parent posted" and the operator flipping the sheet's posted column would
// let the next run publish the same row again.
type Store struct {
	db *sql.DB
}

// Open opens the marker database at path, creating it when missing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open marker db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS posted_rows (
		row_key   TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL,
		posted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init marker db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) IsPosted(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM posted_rows WHERE row_key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query marker db: %w", err)
	}
	return true, nil
}

func (s *Store) MarkPosted(ctx context.Context, key string, parentID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO posted_rows (row_key, parent_id) VALUES (?, ?)",
		key, parentID,
	)
	if err != nil {
		return fmt.Errorf("failed to record marker: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS game_completions (
    learner_id   TEXT    NOT NULL,
    game_id      TEXT    NOT NULL,
    completed_at INTEGER NOT NULL,
    PRIMARY KEY (learner_id, game_id)
);`

// SQLite stores flags in a local database file. It backs the terminal player
// and single-node servers.
type SQLite struct {
	db     *sql.DB
	closed atomic.Bool
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Completed(ctx context.Context, learnerID, gameID string) (bool, error) {
	if s.closed.Load() {
		return false, ErrStoreClosed
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM game_completions WHERE learner_id = ? AND game_id = ?`,
		learnerID, gameID,
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("query completion: %w", err)
	}
	return true, nil
}

func (s *SQLite) MarkCompleted(ctx context.Context, learnerID, gameID string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_completions (learner_id, game_id, completed_at) VALUES (?, ?, ?)`,
		learnerID, gameID, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, learnerID string) ([]Completion, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, completed_at FROM game_completions
		 WHERE learner_id = ? ORDER BY completed_at, game_id`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	list := []Completion{}
	for rows.Next() {
		var c Completion
		var ms int64
		if err := rows.Scan(&c.GameID, &ms); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		c.CompletedAt = time.UnixMilli(ms).UTC()
		list = append(list, c)
	}
	return list, rows.Err()
}

func (s *SQLite) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

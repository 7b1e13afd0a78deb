package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/user/football-manager/internal/interfaces"
	"github.com/user/football-manager/internal/types"
)

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	version   INTEGER NOT NULL,
	saved_at  TIMESTAMP NOT NULL,
	game_date TEXT NOT NULL,
	payload   BLOB NOT NULL
)`

// SQLiteStorage keeps every saved snapshot as a row; Load returns the latest.
// The caller registers the driver (github.com/mattn/go-sqlite3).
type SQLiteStorage struct {
	db *sql.DB
}

var _ interfaces.SnapshotStore = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database at dsn and creates the snapshots table
func NewSQLiteStorage(ctx context.Context, driver, dsn string) (*SQLiteStorage, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createSnapshotsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Save appends the snapshot as a new row
func (s *SQLiteStorage) Save(ctx context.Context, snapshot *types.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	gameDate := ""
	if snapshot.State != nil {
		gameDate = snapshot.State.CurrentDate.Format("2006-01-02")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (version, saved_at, game_date, payload) VALUES (?, ?, ?, ?)`,
		snapshot.Version, snapshot.SavedAt, gameDate, payload)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// Load returns the most recently saved snapshot
func (s *SQLiteStorage) Load(ctx context.Context) (*types.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// Count returns the number of stored snapshots
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// Close closes the database
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

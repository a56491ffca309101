// Package sqlite implements the blob store on a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary

	"github.com/strataview/strata/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`

// Store is a BlobStore backed by SQLite. Writes are last-write-wins; the
// engine serializes mutations on its owner goroutine, so no transaction
// coordination is needed here.
type Store struct {
	db *sql.DB
}

// Open creates a blob store at the given database path, creating the
// directory and schema as needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	const dbDirPerm = 0o750
	log := logging.FromContext(ctx)

	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("blob store opened")

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// Get returns the blob for key, with found=false for an absent key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load blob %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores the blob for key, overwriting any previous value.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO blobs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to store blob %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}

// DeleteAll wipes every stored blob.
func (s *Store) DeleteAll() error {
	if _, err := s.db.Exec("DELETE FROM blobs"); err != nil {
		return fmt.Errorf("failed to purge blobs: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

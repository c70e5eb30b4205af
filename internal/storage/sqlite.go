// Package storage provides the SQLite persistence layer backing the engine's
// Store interface. A single connection with WAL journaling keeps every
// multi-statement operation serialized, which is what makes the log-and-credit
// and redemption debits atomic without row locking.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verdantlabs/ecocycle/internal/rewards"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements service.Store using SQLite.
type SQLiteStore struct {
	db         *sql.DB
	calculator *rewards.Calculator
	dbPath     string
}

// NewSQLiteStore opens (or creates) the database at dbPath. Points for each
// log entry are computed by the given calculator at insert time; passing nil
// uses the default reward configuration.
func NewSQLiteStore(dbPath string, calculator *rewards.Calculator) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if calculator == nil {
		calculator = rewards.New(rewards.DefaultConfig())
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:         db,
		dbPath:     dbPath,
		calculator: calculator,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

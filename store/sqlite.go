package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteSchema is applied on every open
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blobs (
    key         TEXT PRIMARY KEY,
    data        BLOB NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);
`

// OpenSQLite opens or creates the SQLite database at path
func OpenSQLite(path string, logger *slog.Logger) (*SQL, error) {

	// ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")

	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return newSQL(db, logger, func(int) string { return "?" }), nil
}

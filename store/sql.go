package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SQL is a Store on a database/sql connection holding blobs in a single
// blobs(key, data, updated_at) table
type SQL struct {
	db     *sql.DB
	logger *slog.Logger
	// placeholder returns the bind parameter for position n starting at 1
	placeholder func(n int) string
}

// newSQL wraps an open database
func newSQL(db *sql.DB, logger *slog.Logger, placeholder func(int) string) *SQL {
	return &SQL{
		db:          db,
		logger:      logger,
		placeholder: placeholder,
	}
}

// DB returns the underlying connection pool
func (s *SQL) DB() *sql.DB {
	return s.db
}

// Load selects the blob under key
func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var data []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM blobs WHERE key = "+s.placeholder(1), key,
	).Scan(&data)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}

	return data, nil
}

// Save upserts the blob under key
func (s *SQL) Save(ctx context.Context, key string, blob []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO blobs (key, data, updated_at) VALUES (%s, %s, %s)
		ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.placeholder(1), s.placeholder(2), s.placeholder(3))

	if _, err := s.db.ExecContext(ctx, query, key, blob, time.Now().UTC()); err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}

	s.logger.Debug("blob saved", "key", key, "bytes", len(blob))
	return nil
}

// Delete removes the row under key
func (s *SQL) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = "+s.placeholder(1), key)

	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// Keys returns every stored key in ascending order
func (s *SQL) Keys(ctx context.Context) ([]string, error) {

	rows, err := s.db.QueryContext(ctx, "SELECT key FROM blobs ORDER BY key")

	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string

	for rows.Next() {
		var k string

		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}

		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// Close closes the database connection
func (s *SQL) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

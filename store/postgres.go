package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"log/slog"
	"time"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// pingTimeout bounds the connection check on open
const pingTimeout = 10 * time.Second

//go:embed migrations/*.sql
var migrations embed.FS

// OpenPostgres connects to PostgreSQL through the pgx driver.  The blobs
// table is created by MigratePostgres
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*SQL, error) {

	db, err := sql.Open("pgx", dsn)

	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection established")

	return newSQL(db, logger, func(n int) string { return fmt.Sprintf("$%d", n) }), nil
}

// Migrator returns a migrator for the embedded PostgreSQL migrations.  The
// caller must Close it
func Migrator(dsn string) (*migrate.Migrate, error) {

	source, err := iofs.New(migrations, "migrations")

	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)

	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return m, nil
}

// MigratePostgres applies all pending up migrations
func MigratePostgres(dsn string) error {

	m, err := Migrator(dsn)

	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run up migrations: %w", err)
	}

	return nil
}

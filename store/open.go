package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Open creates the backend selected by the configuration
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger = logger.With("system", "store", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendFile:
		return NewFile(cfg.Dir, logger)
	case BackendSQLite:
		return OpenSQLite(cfg.Path, logger)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.DSN, logger)
	case BackendRedis:
		return NewRedis(ctx, cfg.Redis, logger)
	case BackendAzure:
		return NewAzureBlob(ctx, cfg.Azure, logger)
	case BackendMemory:
		return NewMemory(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

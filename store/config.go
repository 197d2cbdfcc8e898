package store

import (
	"fmt"
)

// Supported backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendAzure    = "azblob"
)

// Config selects and configures a backend
type Config struct {
	// Backend is one of memory, file, sqlite, postgres, redis or azblob
	Backend string `toml:"backend" yaml:"backend"`
	// Dir is the directory used by the file backend
	Dir string `toml:"dir" yaml:"dir"`
	// Path is the database file used by the sqlite backend
	Path string `toml:"path" yaml:"path"`
	// DSN is the connection string used by the postgres backend
	DSN   string      `toml:"dsn" yaml:"dsn"`
	Redis RedisConfig `toml:"redis" yaml:"redis"`
	Azure AzureConfig `toml:"azure" yaml:"azure"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// AzureConfig configures the azure blob backend
type AzureConfig struct {
	ConnectionString string `toml:"connection_string" yaml:"connection_string"`
	Container        string `toml:"container" yaml:"container"`
}

// DefaultConfig returns an in memory store configuration
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Dir:     "posecoach-data",
		Path:    "posecoach.db",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Azure: AzureConfig{
			Container: "posecoach",
		},
	}
}

// Validate checks the settings required by the selected backend are present
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Dir == "" {
			return fmt.Errorf("store dir required for %s backend", c.Backend)
		}
	case BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("store path required for %s backend", c.Backend)
		}
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("store dsn required for %s backend", c.Backend)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis addr required for %s backend", c.Backend)
		}
	case BackendAzure:
		if c.Azure.ConnectionString == "" || c.Azure.Container == "" {
			return fmt.Errorf("azure connection string and container required for %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-posecoach/store"
)

// write creates a file in dir and returns its path
func write(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.K)
	assert.Equal(t, 15, cfg.HistorySize)
	assert.Equal(t, "swim_history", cfg.JournalKey)
	assert.Equal(t, 100, cfg.JournalSize)
	assert.Equal(t, store.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "swim_knn_3", cfg.ClassifierKey(3))
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), filepath.Join(t.TempDir(), "absent.env"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()

	path := write(t, dir, "posecoach.toml", `
k = 3
hold_goal = 20.5
smoothing = true

[log]
level = "debug"
format = "json"

[store]
backend = "sqlite"
path = "/var/lib/posecoach/blobs.db"

[render]
font = "NanumGothic.ttf"
`)

	cfg, err := Load(path, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.K)
	assert.Equal(t, 20.5, cfg.HoldGoal)
	assert.True(t, cfg.Smoothing)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/var/lib/posecoach/blobs.db", cfg.Store.Path)
	assert.Equal(t, "NanumGothic.ttf", cfg.Render.Font)

	// unset fields keep their defaults
	assert.Equal(t, 15, cfg.HistorySize)
	assert.Equal(t, 18.0, cfg.Render.FontSize)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()

	path := write(t, dir, "posecoach.yaml", `
k: 7
store:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
`)

	cfg, err := Load(path, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.K)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(write(t, dir, "bad.toml", "k = = 1"))
	assert.Error(t, err)

	_, err = Load(write(t, dir, "invalid.toml", "k = 0"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POSECOACH_K", "9")
	t.Setenv("POSECOACH_HOLD_GOAL", "12")
	t.Setenv("POSECOACH_SMOOTHING", "true")
	t.Setenv("POSECOACH_STORE_BACKEND", "postgres")
	t.Setenv("POSECOACH_DB_DSN", "postgres://coach@db/posecoach")
	t.Setenv("POSECOACH_LOG_LEVEL", "warn")

	cfg, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.K)
	assert.Equal(t, 12.0, cfg.HoldGoal)
	assert.True(t, cfg.Smoothing)
	assert.Equal(t, store.BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "postgres://coach@db/posecoach", cfg.Store.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("POSECOACH_K", "many")

	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()

	env := write(t, dir, "test.env", "POSECOACH_JOURNAL_SIZE=25\n")

	// godotenv does not overwrite variables already set
	t.Setenv("POSECOACH_JOURNAL_SIZE", "")
	os.Unsetenv("POSECOACH_JOURNAL_SIZE")

	cfg, err := Load("", env)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.JournalSize)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"history":       func(c *Config) { c.HistorySize = 4 },
		"hold goal":     func(c *Config) { c.HoldGoal = -1 },
		"key prefix":    func(c *Config) { c.KeyPrefix = "" },
		"journal key":   func(c *Config) { c.JournalKey = "" },
		"journal size":  func(c *Config) { c.JournalSize = 0 },
		"log format":    func(c *Config) { c.Log.Format = "xml" },
		"store backend": func(c *Config) { c.Store.Backend = "tape" },
	}

	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)

		assert.ErrorIs(t, cfg.Validate(), ErrInvalid, name)
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load("../example/data/posecoach.toml", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.True(t, cfg.Smoothing)
	assert.Equal(t, store.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "../data/store", cfg.Store.Dir)
	assert.Equal(t, "", cfg.Render.Font)
}

// Package config loads the posecoach settings from a TOML or YAML file,
// optional .env files and POSECOACH_ environment variables.
package config

import (
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/swdee/go-posecoach/history"
	"github.com/swdee/go-posecoach/journal"
	"github.com/swdee/go-posecoach/knn"
	"github.com/swdee/go-posecoach/logging"
	"github.com/swdee/go-posecoach/store"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strconv"
)

// envPrefix is prepended to every environment override
const envPrefix = "POSECOACH_"

// ErrInvalid is wrapped by validation failures
var ErrInvalid = errors.New("invalid configuration")

// Config holds all settings
type Config struct {
	// K is the number of neighbours voting in each classifier
	K int `toml:"k" yaml:"k"`
	// HistorySize is the number of frames kept for motion detection
	HistorySize int `toml:"history_size" yaml:"history_size"`
	// HoldGoal overrides the hold goal in seconds of hold motions, zero
	// uses each motion's own goal
	HoldGoal float64 `toml:"hold_goal" yaml:"hold_goal"`
	// KeyPrefix is prepended to the motion id to form classifier keys
	KeyPrefix string `toml:"key_prefix" yaml:"key_prefix"`
	// JournalKey is the key the practice journal is stored under
	JournalKey string `toml:"journal_key" yaml:"journal_key"`
	// JournalSize is the number of journal entries kept
	JournalSize int `toml:"journal_size" yaml:"journal_size"`
	// Smoothing enables Kalman filtering of landmarks
	Smoothing bool           `toml:"smoothing" yaml:"smoothing"`
	Log       logging.Config `toml:"log" yaml:"log"`
	Store     store.Config   `toml:"store" yaml:"store"`
	Render    Render         `toml:"render" yaml:"render"`
}

// Render holds overlay settings
type Render struct {
	// Font is a TTF/OTF file used for overlay text, empty uses the built in
	// Hershey font
	Font string `toml:"font" yaml:"font"`
	// FontSize in points
	FontSize float64 `toml:"font_size" yaml:"font_size"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		K:           knn.DefaultK,
		HistorySize: history.DefaultSize,
		KeyPrefix:   "swim_knn_",
		JournalKey:  journal.DefaultKey,
		JournalSize: journal.DefaultSize,
		Log:         logging.DefaultConfig(),
		Store:       store.DefaultConfig(),
		Render: Render{
			FontSize: 18,
		},
	}
}

// Load reads the configuration file at path over the defaults, then applies
// .env files and environment overrides and validates the result.  An empty
// or missing path uses the defaults.  envFiles default to .env in the
// working directory and may be absent
func Load(path string, envFiles ...string) (*Config, error) {

	// missing .env files are not an error
	_ = godotenv.Load(envFiles...)

	cfg, err := loadFile(path)

	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile decodes the file by extension over the defaults
func loadFile(path string) (*Config, error) {

	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnvOverrides sets fields from POSECOACH_ environment variables
func (c *Config) ApplyEnvOverrides() error {

	ints := map[string]*int{
		"K":            &c.K,
		"HISTORY_SIZE": &c.HistorySize,
		"JOURNAL_SIZE": &c.JournalSize,
		"REDIS_DB":     &c.Store.Redis.DB,
	}

	for name, dst := range ints {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)

			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, name, err)
			}

			*dst = n
		}
	}

	if v, ok := lookup("HOLD_GOAL"); ok {
		f, err := strconv.ParseFloat(v, 64)

		if err != nil {
			return fmt.Errorf("%w: %sHOLD_GOAL: %v", ErrInvalid, envPrefix, err)
		}

		c.HoldGoal = f
	}

	if v, ok := lookup("SMOOTHING"); ok {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fmt.Errorf("%w: %sSMOOTHING: %v", ErrInvalid, envPrefix, err)
		}

		c.Smoothing = b
	}

	strs := map[string]*string{
		"KEY_PREFIX":              &c.KeyPrefix,
		"JOURNAL_KEY":             &c.JournalKey,
		"LOG_LEVEL":               &c.Log.Level,
		"LOG_FORMAT":              &c.Log.Format,
		"STORE_BACKEND":           &c.Store.Backend,
		"STORE_DIR":               &c.Store.Dir,
		"STORE_PATH":              &c.Store.Path,
		"DB_DSN":                  &c.Store.DSN,
		"REDIS_ADDR":              &c.Store.Redis.Addr,
		"REDIS_PASSWORD":          &c.Store.Redis.Password,
		"AZURE_CONNECTION_STRING": &c.Store.Azure.ConnectionString,
		"AZURE_CONTAINER":         &c.Store.Azure.Container,
		"FONT":                    &c.Render.Font,
	}

	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	return nil
}

// lookup returns a non empty prefixed environment variable
func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	return v, ok && v != ""
}

// Validate checks the settings are usable
func (c *Config) Validate() error {

	switch {
	case c.K < 1:
		return fmt.Errorf("%w: k must be at least 1", ErrInvalid)
	case c.HistorySize < 8:
		return fmt.Errorf("%w: history_size must be at least 8", ErrInvalid)
	case c.HoldGoal < 0:
		return fmt.Errorf("%w: hold_goal must not be negative", ErrInvalid)
	case c.KeyPrefix == "":
		return fmt.Errorf("%w: key_prefix must not be empty", ErrInvalid)
	case c.JournalKey == "":
		return fmt.Errorf("%w: journal_key must not be empty", ErrInvalid)
	case c.JournalSize < 1:
		return fmt.Errorf("%w: journal_size must be at least 1", ErrInvalid)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// ClassifierKey returns the store key of a motion's classifier
func (c *Config) ClassifierKey(motionID int) string {
	return c.KeyPrefix + strconv.Itoa(motionID)
}

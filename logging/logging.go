// Package logging builds the structured slog logger shared by the long lived
// components.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the logging configuration
type Config struct {
	// Level is the minimum level, one of debug, info, warn or error
	Level string `toml:"level" yaml:"level"`
	// Format is text or json
	Format string `toml:"format" yaml:"format"`
	// AddSource adds the source file and line to entries
	AddSource bool `toml:"add_source" yaml:"add_source"`
}

// DefaultConfig returns info level text logging
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatText,
	}
}

// ParseLevel converts a level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Validate checks the level and format are known
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}

	switch c.Format {
	case FormatText, FormatJSON, "":
		return nil
	}

	return fmt.Errorf("unknown log format %q", c.Format)
}

// New returns a logger writing to w.  Invalid settings fall back to info
// level text output
func New(cfg Config, w io.Writer) *slog.Logger {

	level, _ := ParseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var h slog.Handler

	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h)
}

// Discard returns a logger that drops all output
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

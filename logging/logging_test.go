package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}

	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Level: "info", Format: "xml"}.Validate())
	assert.Error(t, Config{Level: "trace"}.Validate())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{Level: "warn", Format: FormatJSON}, &buf)

	logger.Info("dropped")
	logger.With("system", "coach").Warn("classifier corrupt", "motion", 3)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))

	assert.Equal(t, "classifier corrupt", entry["msg"])
	assert.Equal(t, "coach", entry["system"])
	assert.Equal(t, 3.0, entry["motion"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer

	New(DefaultConfig(), &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	New(Config{Level: "debug"}, &buf).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

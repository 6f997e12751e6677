package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/ecscore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stress.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10000, cfg.World.MaxEntities)
	assert.True(t, cfg.World.Backfill)
	assert.Equal(t, 10*time.Second, cfg.Run.Duration)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Profile.Mode)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[world]
max_entities = 200
backfill = false

[run]
duration = "1500ms"
entities = 50

[logging]
level = "debug"
format = "json"

[profile]
mode = "mem"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.World.MaxEntities)
	assert.False(t, cfg.World.Backfill)
	assert.Equal(t, 1500*time.Millisecond, cfg.Run.Duration)
	assert.Equal(t, 50, cfg.Run.Entities)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "mem", cfg.Profile.Mode)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, int64(1), cfg.Run.Seed)
	assert.Equal(t, ".", cfg.Profile.Path)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"syntax", "[world\n", "parse config"},
		{"zero capacity", "[world]\nmax_entities = 0\n", "max_entities must be positive"},
		{"too many entities", "[world]\nmax_entities = 10\n[run]\nentities = 11\n", "run.entities"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad profile", "[profile]\nmode = \"gpu\"\n", "profile.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1024, cfg.Converter.CacheSize)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestLoad(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("loads from config file", func(t *testing.T) {
		path := writeFile(t, `
log:
  level: debug
  format: json
converter:
  cache_size: 0
  split_punctuation: true
server:
  port: "9090"
  rate_limit: 5
  rate_burst: 10
  shutdown_timeout: 3s
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, 0, cfg.Converter.CacheSize)
		assert.True(t, cfg.Converter.SplitPunctuation)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.InDelta(t, 5.0, cfg.Server.RateLimit, 1e-9)
		assert.Equal(t, 10, cfg.Server.RateBurst)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeFile(t, "server:\n  port: \"9090\"\n")
		t.Setenv("RUNUM_SERVER_PORT", "7070")
		t.Setenv("RUNUM_CONVERTER_CACHE_SIZE", "16")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, 16, cfg.Converter.CacheSize)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeFile(t, "log:\n  format: xml\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalid))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, "log: [unterminated\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative cache", func(c *Config) { c.Converter.CacheSize = -1 }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"rate without burst", func(c *Config) { c.Server.RateBurst = 0 }},
		{"zero body cap", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	lv, err := LogConfig{Level: "warn"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lv)

	lv, err = LogConfig{Level: "DEBUG"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lv)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runum.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestManagerReload(t *testing.T) {
	path := writeFile(t, "log:\n  level: info\n")
	m, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.File())

	var got *Config
	m.OnChange(func(c *Config) { got = c })

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))
	require.NoError(t, m.v.ReadInConfig())
	m.reload()

	require.NotNil(t, got)
	assert.Equal(t, "error", got.Log.Level)
	assert.Equal(t, "error", m.Get().Log.Level)

	// An invalid edit keeps the previous configuration.
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))
	require.NoError(t, m.v.ReadInConfig())
	m.reload()
	assert.Equal(t, "error", m.Get().Log.Level)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/domain"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "config.yaml")).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultOrigin, cfg.API.Origin)
	assert.Equal(t, "youtubei/v1", cfg.API.BasePath)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Player.PollInterval)
	assert.Equal(t, "::", cfg.Proxy.Host)
	assert.Equal(t, 8080, cfg.Proxy.Port)
	assert.Equal(t, 3000, cfg.Proxy.APIPort)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  origin: http://localhost:3000
  timeout: 5s
  gl: VN
player:
  command: vlc
  args: ["--fullscreen"]
ui:
  language: vi
  safe_mode: true
`), 0o644))

	t.Setenv("YOUHUB_API_BASE_PATH", "api/v2")
	t.Setenv("YOUHUB_PROXY_PORT", "9090")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.API.Origin)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "VN", cfg.API.GL)
	assert.Equal(t, "api/v2", cfg.API.BasePath)
	assert.Equal(t, "vlc", cfg.Player.Command)
	assert.Equal(t, []string{"--fullscreen"}, cfg.Player.Args)
	assert.Equal(t, "vi", cfg.UI.Language)
	assert.True(t, cfg.UI.SafeMode)
	assert.Equal(t, 9090, cfg.Proxy.Port)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.API.HL = "vi"
	cfg.Player.StartFlag = "--start="
	cfg.Storage.Backend = "sqlite"

	require.NoError(t, NewLoader(path).Save(cfg))

	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "vi", got.API.HL)
	assert.Equal(t, "--start=", got.Player.StartFlag)
	assert.Equal(t, "sqlite", got.Storage.Backend)
	assert.Equal(t, cfg.API.Timeout, got.API.Timeout)
}

func TestValidateAggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Origin = "ftp://nowhere"
	cfg.UI.Language = "xx"
	cfg.Storage.Backend = "redis"
	cfg.Proxy.Port = 70000
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	for _, want := range []string{"api:", "ui:", "storage:", "proxy:", "logging:"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), "player:")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "y.log"), expandHome("~/logs/y.log"))
	assert.Equal(t, "/var/log/y.log", expandHome("/var/log/y.log"))
}

func TestLoggingLevelAndPath(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, LoggingConfig{Level: in}.SlogLevel(), in)
	}

	assert.Equal(t, filepath.Join(DataDir(), "youhub.log"), LoggingConfig{}.Path())
	assert.Equal(t, "/var/log/y.log", LoggingConfig{File: "/var/log/y.log"}.Path())

	bad := LoggingConfig{Level: "info", Format: "xml"}
	assert.ErrorContains(t, bad.Validate(), "invalid log format")
}

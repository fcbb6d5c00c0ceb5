package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/config"
)

func TestSetupWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "youhub.log")
	logger, closer, err := Setup(config.LoggingConfig{File: path, Level: "warn"}, "1.2.3")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "videoID", "dQw4w9WgXcQ")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "dQw4w9WgXcQ", line["videoID"])
	assert.Equal(t, "youhub", line["app"])
	assert.Equal(t, "1.2.3", line["version"])
}

func TestTextFormatAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "debug", Format: "text"}, "dev")

	logger.Debug("api response",
		"duration", 1234567*time.Microsecond,
		"body", strings.Repeat("é", MaxValueLen))

	out := buf.String()
	assert.Contains(t, out, "duration=1.235s")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("é", MaxValueLen/2+1))
	assert.Contains(t, out, "version=dev")
}

func TestNull(t *testing.T) {
	assert.NotPanics(t, func() { Null().Error("nothing") })
}

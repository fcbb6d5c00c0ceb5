// Package log builds the file-backed slog logger. The TUI owns the
// terminal, so nothing is ever written to stdout.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/youhub/internal/config"
)

// MaxValueLen caps string attributes; proxy bodies and payloads can be
// whole pages
const MaxValueLen = 512

// Setup opens the configured log file and returns a logger tagged with
// version, plus the closer for the file.
func Setup(cfg config.LoggingConfig, version string) (*slog.Logger, io.Closer, error) {
	logPath := cfg.Path()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(logFile, cfg, version), logFile, nil
}

// New returns a logger writing to w in the configured format
func New(w io.Writer, cfg config.LoggingConfig, version string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: replaceAttr,
	}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("app", "youhub", "version", version)
}

// replaceAttr prints durations as "1.2s" rather than nanoseconds and
// shortens long strings
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindDuration:
		return slog.String(a.Key, a.Value.Duration().Round(time.Millisecond).String())
	case slog.KindString:
		if s := a.Value.String(); len(s) > MaxValueLen {
			return slog.String(a.Key, clip(s, MaxValueLen)+"...")
		}
	}
	return a
}

// clip cuts s to at most n bytes without splitting a rune
func clip(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Null returns a logger that discards all output
func Null() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

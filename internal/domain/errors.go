package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrRequestFailed indicates the proxy answered with a non-2xx status
	ErrRequestFailed = errors.New("request failed")

	// ErrServerOffline indicates the proxy is unreachable
	ErrServerOffline = errors.New("metadata proxy is unreachable")

	// ErrNotFound indicates the requested item does not exist
	ErrNotFound = errors.New("not found")

	// ErrNotReady indicates the playback engine has not finished loading
	ErrNotReady = errors.New("player not ready")

	// ErrNoPlayer indicates no usable external player was found
	ErrNoPlayer = errors.New("no player available")

	// ErrInvalidConfig indicates the configuration failed validation
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SuggestedError wraps an error with a hint for the user
type SuggestedError struct {
	Err        error
	Suggestion string
}

func (e *SuggestedError) Error() string {
	return e.Err.Error()
}

func (e *SuggestedError) Unwrap() error {
	return e.Err
}

// WithSuggestion attaches a hint to err
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &SuggestedError{Err: err, Suggestion: suggestion}
}

// Suggestion returns a hint for err, or "" when none applies
func Suggestion(err error) string {
	if err == nil {
		return ""
	}

	var se *SuggestedError
	if errors.As(err, &se) && se.Suggestion != "" {
		return se.Suggestion
	}

	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, ErrServerOffline) || strings.Contains(msg, "connection refused"):
		return "Check api.origin in your config or start the proxy with 'youhub proxy'"
	case errors.Is(err, ErrInvalidConfig):
		return "Run 'youhub setup' or edit ~/.config/youhub/config.yaml"
	case errors.Is(err, ErrNoPlayer):
		return "Install mpv or set player.command in your config"
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return "Too many requests. Wait a moment and try again"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return "The proxy is slow to respond. Raise api.timeout or try again"
	}
	return ""
}

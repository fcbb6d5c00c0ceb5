package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/i18n"
)

// Validate checks the configuration for errors. Every problem is reported,
// wrapped in domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("api: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.UI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui: %w", err))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	if err := c.Proxy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("proxy: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
}

// Validate checks APIConfig for errors.
func (c *APIConfig) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid origin: %q (must be an http or https URL)", c.Origin)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.PollInterval < 0 {
		return errors.New("poll_interval must be non-negative")
	}
	return nil
}

// Validate checks UIConfig for errors.
func (c *UIConfig) Validate() error {
	if c.Language != "" {
		if _, ok := i18n.Parse(c.Language); !ok {
			return fmt.Errorf("unsupported language: %s", c.Language)
		}
	}
	switch c.Theme {
	case "", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be dark or light)", c.Theme)
	}
	if c.ShareOrigin != "" {
		if _, err := url.Parse(c.ShareOrigin); err != nil {
			return fmt.Errorf("invalid share_origin: %w", err)
		}
	}
	return nil
}

// Validate checks StorageConfig for errors.
func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case "", "bolt", "sqlite", "memory":
		// valid
	default:
		return fmt.Errorf("invalid backend: %s (must be bolt, sqlite, or memory)", c.Backend)
	}
	return nil
}

// Validate checks ProxyConfig for errors.
func (c *ProxyConfig) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("api_port out of range: %d", c.APIPort))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must be non-negative"))
	}
	return errors.Join(errs...)
}

// Validate checks LoggingConfig for errors.
func (c *LoggingConfig) Validate() error {
	if _, ok := parseLevel(c.Level); !ok {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
		// valid
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Format)
	}
	return nil
}

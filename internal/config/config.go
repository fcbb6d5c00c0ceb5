// Package config loads the YAML configuration with environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DefaultOrigin is the public metadata proxy
const DefaultOrigin = "https://youtubei-proxy.bangngo1509a.workers.dev"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Storage StorageConfig `mapstructure:"storage"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig locates the metadata proxy
type APIConfig struct {
	Origin   string        `mapstructure:"origin"`
	BasePath string        `mapstructure:"base_path"`
	Timeout  time.Duration `mapstructure:"timeout"`
	HL       string        `mapstructure:"hl"` // interface language sent upstream
	GL       string        `mapstructure:"gl"` // default region
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command      string        `mapstructure:"command"`
	Args         []string      `mapstructure:"args"`
	StartFlag    string        `mapstructure:"start_flag"` // e.g., "--start=" or "--start-time="
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Autoplay     bool          `mapstructure:"autoplay"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Language    string `mapstructure:"language"`
	SafeMode    bool   `mapstructure:"safe_mode"`
	Theme       string `mapstructure:"theme"`
	ShareOrigin string `mapstructure:"share_origin"`
}

// StorageConfig selects the local KV backend
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // bolt, sqlite or memory
	Path    string `mapstructure:"path"`
}

// ProxyConfig configures the development reverse proxy
type ProxyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	APIHost   string `mapstructure:"api_host"`
	APIPort   int    `mapstructure:"api_port"`
	RateLimit int    `mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// Path returns the log file, defaulting to youhub.log in the data dir
func (c LoggingConfig) Path() string {
	if c.File == "" {
		return filepath.Join(DataDir(), "youhub.log")
	}
	return expandHome(c.File)
}

// SlogLevel returns the configured level; unknown names log at info
func (c LoggingConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Level)
	return level
}

// parseLevel accepts the slog level names in any case, plus "warning"
func parseLevel(s string) (slog.Level, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, true
	}
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, true
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Origin:   DefaultOrigin,
			BasePath: "youtubei/v1",
			Timeout:  30 * time.Second,
		},
		Player: PlayerConfig{
			Command:      "mpv",
			Args:         []string{},
			PollInterval: 500 * time.Millisecond,
			Autoplay:     true,
		},
		UI: UIConfig{
			Theme:       "dark",
			ShareOrigin: DefaultOrigin,
		},
		Storage: StorageConfig{
			Backend: "bolt",
			Path:    DataDir(),
		},
		Proxy: ProxyConfig{
			Host:      "::",
			Port:      8080,
			APIHost:   "localhost",
			APIPort:   3000,
			RateLimit: 600,
		},
		Logging: LoggingConfig{
			File:   filepath.Join(DataDir(), "youhub.log"),
			Level:  "info",
			Format: "json",
		},
	}
}

// DataDir returns the directory for the store and the log file
func DataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "youhub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "youhub")
	}
}

// Dir returns the default config directory for the current OS
func Dir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "youhub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "youhub")
	}
}

// Loader reads and writes one config file
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader. An empty path searches the config directory
// and the working directory for config.yaml.
func NewLoader(path string) *Loader {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	// Environment variable overrides: YOUHUB_API_ORIGIN and so on
	v.SetEnvPrefix("YOUHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	return &Loader{v: v}
}

// Load reads the config file if it exists and applies env overrides
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	return l.decode()
}

// Path returns the file in use, or the default location when none was found
func (l *Loader) Path() string {
	if f := l.v.ConfigFileUsed(); f != "" {
		return f
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Save writes cfg to the config file
func (l *Loader) Save(cfg *Config) error {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	l.v.Set("api.origin", cfg.API.Origin)
	l.v.Set("api.base_path", cfg.API.BasePath)
	l.v.Set("api.timeout", cfg.API.Timeout.String())
	l.v.Set("api.hl", cfg.API.HL)
	l.v.Set("api.gl", cfg.API.GL)

	l.v.Set("player.command", cfg.Player.Command)
	l.v.Set("player.args", cfg.Player.Args)
	l.v.Set("player.start_flag", cfg.Player.StartFlag)
	l.v.Set("player.poll_interval", cfg.Player.PollInterval.String())
	l.v.Set("player.autoplay", cfg.Player.Autoplay)

	l.v.Set("ui.language", cfg.UI.Language)
	l.v.Set("ui.safe_mode", cfg.UI.SafeMode)
	l.v.Set("ui.theme", cfg.UI.Theme)
	l.v.Set("ui.share_origin", cfg.UI.ShareOrigin)

	l.v.Set("storage.backend", cfg.Storage.Backend)
	l.v.Set("storage.path", cfg.Storage.Path)

	l.v.Set("proxy.host", cfg.Proxy.Host)
	l.v.Set("proxy.port", cfg.Proxy.Port)
	l.v.Set("proxy.api_host", cfg.Proxy.APIHost)
	l.v.Set("proxy.api_port", cfg.Proxy.APIPort)
	l.v.Set("proxy.rate_limit", cfg.Proxy.RateLimit)

	l.v.Set("logging.file", cfg.Logging.File)
	l.v.Set("logging.level", cfg.Logging.Level)
	l.v.Set("logging.format", cfg.Logging.Format)

	if err := l.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Watch calls fn with the reloaded config whenever the file changes.
// Invalid edits are reported through onErr and otherwise ignored.
func (l *Loader) Watch(fn func(*Config), onErr func(error)) {
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.decode()
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.origin", d.API.Origin)
	v.SetDefault("api.base_path", d.API.BasePath)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.hl", d.API.HL)
	v.SetDefault("api.gl", d.API.GL)

	v.SetDefault("player.command", d.Player.Command)
	v.SetDefault("player.args", d.Player.Args)
	v.SetDefault("player.start_flag", d.Player.StartFlag)
	v.SetDefault("player.poll_interval", d.Player.PollInterval)
	v.SetDefault("player.autoplay", d.Player.Autoplay)

	v.SetDefault("ui.language", d.UI.Language)
	v.SetDefault("ui.safe_mode", d.UI.SafeMode)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.share_origin", d.UI.ShareOrigin)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)

	v.SetDefault("proxy.host", d.Proxy.Host)
	v.SetDefault("proxy.port", d.Proxy.Port)
	v.SetDefault("proxy.api_host", d.Proxy.APIHost)
	v.SetDefault("proxy.api_port", d.Proxy.APIPort)
	v.SetDefault("proxy.rate_limit", d.Proxy.RateLimit)

	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

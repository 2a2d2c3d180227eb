package model

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// APIConfig holds the backend connection settings.
type APIConfig struct {
	// BaseURL is the root URL every request path is appended to.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RequestTimeoutSec bounds each request. Zero leaves the transport
	// default in place.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// SessionConfig identifies the logged-in user.
type SessionConfig struct {
	// UserID owns the feed and is the source of submitted events.
	UserID string `mapstructure:"user_id" yaml:"user_id"`

	// DefaultTarget pre-fills the target field of the event form.
	DefaultTarget string `mapstructure:"default_target" yaml:"default_target"`
}

// PollConfig controls the feed refresh cadence.
type PollConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// CacheConfig controls the local SQLite cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Poll    PollConfig    `mapstructure:"poll" yaml:"poll"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// PollInterval returns the configured refresh cadence.
func (c *AppConfig) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSec) * time.Second
}

// RequestTimeout returns the per-request timeout, zero when unset.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutSec) * time.Second
}

// Validate reports settings the client cannot run with.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must be set")
	}
	if strings.TrimSpace(c.Session.UserID) == "" {
		return errors.New("session.user_id must be set")
	}
	if c.Poll.IntervalSec <= 0 {
		return errors.Errorf("poll.interval_sec must be positive, got %d", c.Poll.IntervalSec)
	}
	if c.API.RequestTimeoutSec < 0 {
		return errors.Errorf("api.request_timeout_sec must not be negative, got %d", c.API.RequestTimeoutSec)
	}
	return nil
}

// DefaultConfigDir returns ~/.config/insyd.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "insyd")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/insyd/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := DefaultConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
		},
		Session: SessionConfig{
			UserID:        "user123",
			DefaultTarget: "user123",
		},
		Poll: PollConfig{IntervalSec: 5},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "cache.db"),
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "insyd.log"),
			Level: "info",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A .env file in the working directory is loaded first, and INSYD_*
// environment variables override file values. If the file does not exist,
// defaults (plus environment overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.request_timeout_sec", defaults.API.RequestTimeoutSec)
	v.SetDefault("session.user_id", defaults.Session.UserID)
	v.SetDefault("session.default_target", defaults.Session.DefaultTarget)
	v.SetDefault("poll.interval_sec", defaults.Poll.IntervalSec)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.path", defaults.Cache.Path)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("display.theme", defaults.Display.Theme)

	v.SetEnvPrefix("INSYD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// INSYD_API_URL is the short form used in .env files.
	if err := v.BindEnv("api.base_url", "INSYD_API_URL", "INSYD_API_BASE_URL"); err != nil {
		return nil, errors.Wrap(err, "binding INSYD_API_URL")
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	cfg.Cache.Path = expandHome(cfg.Cache.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating config directory %s", dir)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("session", cfg.Session)
	v.Set("poll", cfg.Poll)
	v.Set("cache", cfg.Cache)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "writing config to %s", path)
	}

	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}

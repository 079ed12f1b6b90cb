package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the platform's JSON API.
type APIConfig struct {
	// BaseURL is the root URL of the API (e.g., https://anime.example.com/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP attempt.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MaxAttempts is the number of tries for transient failures.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`

	// BackoffMS is multiplied by the attempt number between retries.
	BackoffMS int `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

// FeedConfig controls paging and comment prefetch for the feed.
type FeedConfig struct {
	FirstPageSize      int  `mapstructure:"first_page_size" yaml:"first_page_size"`
	InitialWindow      int  `mapstructure:"initial_window" yaml:"initial_window"`
	PageSize           int  `mapstructure:"page_size" yaml:"page_size"`
	AutoExpandComments bool `mapstructure:"auto_expand_comments" yaml:"auto_expand_comments"`
}

// NotificationsConfig controls unread-count polling.
type NotificationsConfig struct {
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// StorageConfig locates the local database holding durable client state.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API           APIConfig           `mapstructure:"api" yaml:"api"`
	Feed          FeedConfig          `mapstructure:"feed" yaml:"feed"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Storage       StorageConfig       `mapstructure:"storage" yaml:"storage"`
	Log           LogConfig           `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/animefeed, or the working directory when
// the home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "animefeed")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/animefeed/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:     "http://localhost:8000/api",
			TimeoutSec:  30,
			MaxAttempts: 3,
			BackoffMS:   1000,
		},
		Feed: FeedConfig{
			FirstPageSize:      10,
			InitialWindow:      30,
			PageSize:           10,
			AutoExpandComments: true,
		},
		Notifications: NotificationsConfig{
			PollIntervalSec: 30,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(configDir(), "animefeed.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(configDir(), "animefeed.log"),
		},
	}
}

// setDefaults mirrors DefaultAppConfig into v so missing keys resolve.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("api.max_attempts", d.API.MaxAttempts)
	v.SetDefault("api.backoff_ms", d.API.BackoffMS)
	v.SetDefault("feed.first_page_size", d.Feed.FirstPageSize)
	v.SetDefault("feed.initial_window", d.Feed.InitialWindow)
	v.SetDefault("feed.page_size", d.Feed.PageSize)
	v.SetDefault("feed.auto_expand_comments", d.Feed.AutoExpandComments)
	v.SetDefault("notifications.poll_interval_sec", d.Notifications.PollIntervalSec)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with ANIMEFEED_ (e.g. ANIMEFEED_API_BASE_URL)
// override file values. A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("animefeed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.API.MaxAttempts < 1 {
		cfg.API.MaxAttempts = 1
	}
	if cfg.Feed.FirstPageSize <= 0 {
		cfg.Feed.FirstPageSize = 10
	}
	if cfg.Feed.InitialWindow < cfg.Feed.FirstPageSize {
		cfg.Feed.InitialWindow = cfg.Feed.FirstPageSize
	}
	if cfg.Feed.PageSize <= 0 {
		cfg.Feed.PageSize = 10
	}
	if cfg.Notifications.PollIntervalSec <= 0 {
		cfg.Notifications.PollIntervalSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("feed", cfg.Feed)
	v.Set("notifications", cfg.Notifications)
	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

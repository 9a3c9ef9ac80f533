package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	appName    = "anigo"
	envPrefix  = "ANIGO"
	configName = "config"

	// MaxPageSize is the largest page the catalog API serves
	MaxPageSize = 25

	MinDebounce = 300 * time.Millisecond
	MaxDebounce = time.Second
)

// Config holds all application configuration
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Browse     BrowseConfig     `mapstructure:"browse"`
	WatchLater WatchLaterConfig `mapstructure:"watch_later"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Opener     OpenerConfig     `mapstructure:"opener"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// APIConfig holds catalog API configuration
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"` // opt-in, 429 only
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	PageSize   int           `mapstructure:"page_size"`
}

// BrowseConfig holds list browsing configuration
type BrowseConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// WatchLaterConfig holds watch later list configuration
type WatchLaterConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Driver   string        `mapstructure:"driver"` // "bolt" or "sqlite"
	Path     string        `mapstructure:"path"`   // directory; empty keeps everything in memory
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// OpenerConfig holds the browser used for catalog pages and trailers
type OpenerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://api.jikan.moe/v4",
			Timeout:    30 * time.Second,
			MaxRetries: 0,
			RetryDelay: time.Second,
			PageSize:   24,
		},
		Browse: BrowseConfig{
			Debounce: 500 * time.Millisecond,
		},
		WatchLater: WatchLaterConfig{
			PageSize: 12,
		},
		Storage: StorageConfig{
			Driver:   "bolt",
			Path:     defaultDataPath(),
			CacheTTL: 24 * time.Hour,
		},
		Opener: OpenerConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:   filepath.Join(defaultDataPath(), appName+".log"),
			Level:  "INFO",
			Format: "json",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultConfigFile returns the path SaveConfig writes to when none is given
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigDir(), configName+".yaml")
}

// newViper returns a viper instance with defaults and environment overrides bound
func newViper() *viper.Viper {
	v := viper.New()
	setAll(DefaultConfig(), v.SetDefault)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setAll writes every config field through set, keyed by its snake_case path
func setAll(cfg *Config, set func(key string, value any)) {
	set("api.base_url", cfg.API.BaseURL)
	set("api.timeout", cfg.API.Timeout)
	set("api.max_retries", cfg.API.MaxRetries)
	set("api.retry_delay", cfg.API.RetryDelay)
	set("api.page_size", cfg.API.PageSize)

	set("browse.debounce", cfg.Browse.Debounce)

	set("watch_later.page_size", cfg.WatchLater.PageSize)

	set("storage.driver", cfg.Storage.Driver)
	set("storage.path", cfg.Storage.Path)
	set("storage.cache_ttl", cfg.Storage.CacheTTL)

	set("opener.command", cfg.Opener.Command)
	set("opener.args", cfg.Opener.Args)

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
	set("logging.format", cfg.Logging.Format)
}

// LoadConfig loads configuration from .env, the config file and the
// environment. An empty path searches the default locations; a missing
// config file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, or to DefaultConfigFile when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setAll(cfg, func(key string, value any) {
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		v.Set(key, value)
	})

	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field against the range the application supports
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("api.base_url %q is not an http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		add("api.timeout must be positive")
	}
	if c.API.MaxRetries < 0 {
		add("api.max_retries must not be negative")
	}
	if c.API.RetryDelay <= 0 {
		add("api.retry_delay must be positive")
	}
	if c.API.PageSize < 1 || c.API.PageSize > MaxPageSize {
		add("api.page_size %d outside 1-%d", c.API.PageSize, MaxPageSize)
	}
	if c.Browse.Debounce < MinDebounce || c.Browse.Debounce > MaxDebounce {
		add("browse.debounce %s outside %s-%s", c.Browse.Debounce, MinDebounce, MaxDebounce)
	}
	if c.WatchLater.PageSize < 1 {
		add("watch_later.page_size must be at least 1")
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "bolt", "sqlite":
	default:
		add("storage.driver %q is not bolt or sqlite", c.Storage.Driver)
	}
	if c.Storage.CacheTTL < 0 {
		add("storage.cache_ttl must not be negative")
	}
	if _, ok := levels[strings.ToUpper(c.Logging.Level)]; !ok {
		add("logging.level %q is unknown", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		add("logging.format %q is not json or text", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// expandHome expands a leading ~ to the user's home directory
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

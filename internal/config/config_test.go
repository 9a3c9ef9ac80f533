package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.PageSize != 24 || cfg.Browse.Debounce != 500*time.Millisecond || cfg.Storage.Driver != "bolt" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.API.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 (no automatic retry)", cfg.API.MaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `api:
  page_size: 10
  retry_delay: 250ms
browse:
  debounce: 800ms
storage:
  driver: sqlite
opener:
  command: firefox
  args: ["--new-tab"]
logging:
  format: text
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANIGO_API_PAGE_SIZE", "20")
	t.Setenv("ANIGO_WATCH_LATER_PAGE_SIZE", "6")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.API.PageSize != 20 {
		t.Errorf("api.page_size = %d, want env override 20", cfg.API.PageSize)
	}
	if cfg.WatchLater.PageSize != 6 {
		t.Errorf("watch_later.page_size = %d, want 6", cfg.WatchLater.PageSize)
	}
	if cfg.API.RetryDelay != 250*time.Millisecond || cfg.Browse.Debounce != 800*time.Millisecond {
		t.Errorf("durations = %s %s", cfg.API.RetryDelay, cfg.Browse.Debounce)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Opener.Command != "firefox" || len(cfg.Opener.Args) != 1 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.API.BaseURL != "https://api.jikan.moe/v4" {
		t.Errorf("unset key lost its default: %q", cfg.API.BaseURL)
	}
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted malformed yaml")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.PageSize = 15
	cfg.Browse.Debounce = 350 * time.Millisecond
	cfg.Storage.Path = "/tmp/anigo-data"
	cfg.Logging.Level = "DEBUG"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.PageSize != 15 || loaded.Browse.Debounce != 350*time.Millisecond ||
		loaded.Storage.Path != "/tmp/anigo-data" || loaded.Logging.Level != "DEBUG" {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"page size zero", func(c *Config) { c.API.PageSize = 0 }, "api.page_size"},
		{"page size above api limit", func(c *Config) { c.API.PageSize = 26 }, "api.page_size"},
		{"debounce too short", func(c *Config) { c.Browse.Debounce = 100 * time.Millisecond }, "browse.debounce"},
		{"debounce too long", func(c *Config) { c.Browse.Debounce = 2 * time.Second }, "browse.debounce"},
		{"driver", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.driver"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"base url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, "api.base_url"},
		{"retries", func(c *Config) { c.API.MaxRetries = -1 }, "api.max_retries"},
		{"watch later page size", func(c *Config) { c.WatchLater.PageSize = 0 }, "watch_later.page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestSetupLoggerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "anigo.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("SetupLogger() error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("fetch failed", "seq", 3)
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("log lines = %d, want 1 (info filtered): %s", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "fetch failed" || rec["seq"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestSetupLoggerText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anigo.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug", Format: "text"})
	if err != nil {
		t.Fatalf("SetupLogger() error: %v", err)
	}
	logger.Debug("dispatching fetch", "page", 2)
	closer.Close()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "dispatching fetch") || !strings.Contains(string(data), "page=2") {
		t.Errorf("text log = %q", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "DEBUG", "Warning": "WARN", "ERROR": "ERROR", "nonsense": "INFO"} {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./popcorn.db" {
			t.Errorf("expected database path ./popcorn.db, got %s", config.Database.Path)
		}

		if config.Catalog.BaseURL != "https://www.omdbapi.com/" {
			t.Errorf("expected catalog base URL https://www.omdbapi.com/, got %s", config.Catalog.BaseURL)
		}

		if config.Catalog.MinQueryLength != 3 {
			t.Errorf("expected min query length 3, got %d", config.Catalog.MinQueryLength)
		}

		if config.Watchlist.Key != "watched" {
			t.Errorf("expected watchlist key watched, got %s", config.Watchlist.Key)
		}

		if config.Catalog.DetailTimeout() != 10*time.Second {
			t.Errorf("expected detail timeout 10s, got %v", config.Catalog.DetailTimeout())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[catalog]
api_key = "abc123"
base_url = "http://localhost:9090/"
min_query_length = 4

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Catalog.APIKey != "abc123" {
			t.Errorf("expected api key abc123, got %s", config.Catalog.APIKey)
		}

		if config.Catalog.MinQueryLength != 4 {
			t.Errorf("expected min query length 4, got %d", config.Catalog.MinQueryLength)
		}

		if config.Watchlist.Key != "watched" {
			t.Errorf("expected unset watchlist key to keep default, got %q", config.Watchlist.Key)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Unreadable Path", func(t *testing.T) {
		_, err := LoadConfig(t.TempDir())
		if err == nil || errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected read error other than ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig With Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[catalog\napi_key = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("POPCORN_OMDB_API_KEY", "from-env")
		t.Setenv("POPCORN_DB_PATH", "/tmp/env.db")
		t.Setenv("POPCORN_LOG_LEVEL", "debug")

		config := DefaultConfig()
		config.Catalog.APIKey = "from-toml"

		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Catalog.APIKey != "from-env" {
			t.Errorf("expected env api key to win, got %s", config.Catalog.APIKey)
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
	})

	t.Run("ApplyEnv With Unprefixed Key", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("POPCORN_OMDB_API_KEY", "")
		t.Setenv("OMDB_API_KEY", "plain")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Catalog.APIKey != "plain" {
			t.Errorf("expected OMDB_API_KEY to be used, got %s", config.Catalog.APIKey)
		}
	})

	t.Run("ApplyEnv Reads Dotenv File", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("POPCORN_OMDB_API_KEY", "")
		t.Setenv("OMDB_API_KEY", "")
		os.Unsetenv("POPCORN_OMDB_API_KEY")
		os.Unsetenv("OMDB_API_KEY")

		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("POPCORN_OMDB_API_KEY=dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("POPCORN_OMDB_API_KEY") })

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Catalog.APIKey != "dotenv" {
			t.Errorf("expected key from .env, got %s", config.Catalog.APIKey)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "empty base url", mutate: func(c *Config) { c.Catalog.BaseURL = "" }},
			{name: "negative min length", mutate: func(c *Config) { c.Catalog.MinQueryLength = -1 }},
			{name: "negative rate", mutate: func(c *Config) { c.Catalog.RequestsPerSecond = -1 }},
			{name: "empty watchlist key", mutate: func(c *Config) { c.Watchlist.Key = "" }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}

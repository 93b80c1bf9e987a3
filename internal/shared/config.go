package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog   CatalogConfig   `toml:"catalog"`
	Database  DatabaseConfig  `toml:"database"`
	Watchlist WatchlistConfig `toml:"watchlist"`
	Log       LogConfig       `toml:"log"`
}

// CatalogConfig contains the remote movie catalog (OMDb) settings.
type CatalogConfig struct {
	APIKey               string  `toml:"api_key"`
	BaseURL              string  `toml:"base_url"`
	TimeoutSeconds       int     `toml:"timeout_seconds"`
	DetailTimeoutSeconds int     `toml:"detail_timeout_seconds"`
	RequestsPerSecond    float64 `toml:"requests_per_second"`
	Burst                int     `toml:"burst"`
	MinQueryLength       int     `toml:"min_query_length"`
}

// Timeout returns the HTTP client timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DetailTimeout returns how long a detail request may stay loading before it is reported as failed.
func (c CatalogConfig) DetailTimeout() time.Duration {
	return time.Duration(c.DetailTimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// WatchlistConfig names the key the watched collection is stored under.
type WatchlistConfig struct {
	Key string `toml:"key"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// envOverrides are read from the process environment (and an optional .env file).
//
// Alternate names without the POPCORN_ prefix are honored by envconfig when the prefixed one is unset.
type envOverrides struct {
	APIKey       string `envconfig:"POPCORN_OMDB_API_KEY"`
	AltAPIKey    string `envconfig:"OMDB_API_KEY"`
	BaseURL      string `envconfig:"POPCORN_OMDB_BASE_URL"`
	DatabasePath string `envconfig:"POPCORN_DB_PATH"`
	LogLevel     string `envconfig:"POPCORN_LOG_LEVEL"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto the config.
//
// A .env file in the working directory is loaded first when present; existing variables win.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch {
	case env.APIKey != "":
		c.Catalog.APIKey = env.APIKey
	case env.AltAPIKey != "":
		c.Catalog.APIKey = env.AltAPIKey
	}
	if env.BaseURL != "" {
		c.Catalog.BaseURL = env.BaseURL
	}
	if env.DatabasePath != "" {
		c.Database.Path = env.DatabasePath
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}

	return nil
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("%w: catalog.base_url is empty", ErrInvalidConfig)
	}
	if c.Catalog.MinQueryLength < 0 {
		return fmt.Errorf("%w: catalog.min_query_length must not be negative", ErrInvalidConfig)
	}
	if c.Catalog.RequestsPerSecond < 0 || c.Catalog.Burst < 0 {
		return fmt.Errorf("%w: catalog rate limit must not be negative", ErrInvalidConfig)
	}
	if c.Watchlist.Key == "" {
		return fmt.Errorf("%w: watchlist.key is empty", ErrInvalidConfig)
	}
	return nil
}

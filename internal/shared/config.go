package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	AppName = "ytmerge"

	EnvProxyURL = "YTMERGE_PROXY_URL"
	EnvAuthFile = "YTMERGE_AUTH_FILE"
	EnvDBPath   = "YTMERGE_DB_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	YouTube  YouTubeConfig  `toml:"youtube"`
	Merge    MergeConfig    `toml:"merge"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// YouTubeConfig locates the ytmusicapi proxy and the browser credentials it authenticates with.
type YouTubeConfig struct {
	ProxyURL string `toml:"proxy_url"`
	AuthFile string `toml:"auth_file"`
	BaseURL  string `toml:"base_url"`
}

// MergeConfig tunes fetch limits and publish pacing.
type MergeConfig struct {
	BatchSize          int     `toml:"batch_size"`
	RequestsPerSecond  float64 `toml:"requests_per_second"`
	LibraryLimit       int     `toml:"library_limit"`
	PlaylistLimit      int     `toml:"playlist_limit"`
	LikedLimit         int     `toml:"liked_limit"`
	DefaultDescription string  `toml:"default_description"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads a TOML file over the embedded defaults, so keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ResolveConfig loads path when it exists and falls back to defaults otherwise.
// A .env file in the working directory is loaded first and environment overrides are applied last.
func ResolveConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides file values with YTMERGE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvProxyURL); v != "" {
		c.YouTube.ProxyURL = v
	}
	if v := os.Getenv(EnvAuthFile); v != "" {
		c.YouTube.AuthFile = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Merge.BatchSize <= 0:
		return fmt.Errorf("%w: merge.batch_size must be positive", ErrInvalidConfig)
	case c.Merge.RequestsPerSecond < 0:
		return fmt.Errorf("%w: merge.requests_per_second must not be negative", ErrInvalidConfig)
	case c.Merge.LibraryLimit <= 0 || c.Merge.PlaylistLimit <= 0 || c.Merge.LikedLimit <= 0:
		return fmt.Errorf("%w: merge limits must be positive", ErrInvalidConfig)
	case strings.TrimSpace(c.YouTube.ProxyURL) == "":
		return fmt.Errorf("%w: youtube.proxy_url is required", ErrInvalidConfig)
	}
	return nil
}

// DatabasePath returns the configured history database path or the XDG data location.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	path, err := xdg.DataFile(filepath.Join(AppName, "history.db"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return path, nil
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
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

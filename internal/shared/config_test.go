package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Merge.BatchSize != 50 {
			t.Errorf("expected batch size 50, got %d", config.Merge.BatchSize)
		}
		if config.Merge.LikedLimit != 100000 {
			t.Errorf("expected liked limit 100000, got %d", config.Merge.LikedLimit)
		}
		if config.Merge.LibraryLimit != 10000 || config.Merge.PlaylistLimit != 10000 {
			t.Errorf("unexpected fetch limits: %+v", config.Merge)
		}
		if config.Merge.DefaultDescription != "Auto-merged playlist from YouTube Music" {
			t.Errorf("unexpected default description %q", config.Merge.DefaultDescription)
		}
		if config.YouTube.ProxyURL != "http://127.0.0.1:8080" {
			t.Errorf("expected youtube proxy URL http://127.0.0.1:8080, got %s", config.YouTube.ProxyURL)
		}
		if config.YouTube.BaseURL != "https://music.youtube.com" {
			t.Errorf("unexpected base url %s", config.YouTube.BaseURL)
		}
		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected server addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Merge.BatchSize != DefaultConfig().Merge.BatchSize {
			t.Errorf("created config batch size doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig Partial File Keeps Defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[youtube]
proxy_url = "http://localhost:9090"
auth_file = "/path/to/browser.json"

[merge]
batch_size = 25

[server]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.YouTube.ProxyURL != "http://localhost:9090" {
			t.Errorf("expected proxy url from file, got %s", config.YouTube.ProxyURL)
		}
		if config.YouTube.AuthFile != "/path/to/browser.json" {
			t.Errorf("expected auth file from file, got %s", config.YouTube.AuthFile)
		}
		if config.Merge.BatchSize != 25 {
			t.Errorf("expected batch size 25, got %d", config.Merge.BatchSize)
		}
		if config.Merge.LikedLimit != 100000 {
			t.Errorf("expected liked limit to keep default, got %d", config.Merge.LikedLimit)
		}
		if config.Server.Host != "127.0.0.1" || config.Server.Port != 8080 {
			t.Errorf("unexpected server config %+v", config.Server)
		}
	})

	t.Run("LoadConfig Errors", func(t *testing.T) {
		dir := t.TempDir()

		if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		bad := filepath.Join(dir, "bad.toml")
		if err := os.WriteFile(bad, []byte("[merge\nbatch_size = ="), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(bad); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for malformed toml, got %v", err)
		}

		zero := filepath.Join(dir, "zero.toml")
		if err := os.WriteFile(zero, []byte("[merge]\nbatch_size = 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(zero); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for zero batch size, got %v", err)
		}
	})

	t.Run("ResolveConfig Env Overrides", func(t *testing.T) {
		t.Setenv(EnvProxyURL, "http://proxy.test")
		t.Setenv(EnvAuthFile, "/env/browser.json")
		t.Setenv(EnvDBPath, "/env/history.db")

		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.YouTube.ProxyURL != "http://proxy.test" {
			t.Errorf("proxy url override not applied: %s", config.YouTube.ProxyURL)
		}
		if config.YouTube.AuthFile != "/env/browser.json" {
			t.Errorf("auth file override not applied: %s", config.YouTube.AuthFile)
		}

		path, err := config.DatabasePath()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/env/history.db" {
			t.Errorf("db path override not applied: %s", path)
		}
	})
}

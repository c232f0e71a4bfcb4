package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultDestinationTitle = "My Merged Playlist"
	DefaultPrivacy          = "PRIVATE"
)

// Settings are the choices remembered between sessions.
type Settings struct {
	LastDestTitle string `koanf:"last_dest_title"`
	LastPrivacy   string `koanf:"last_privacy"`
	IncludeLiked  bool   `koanf:"include_liked"`
	BrowserFile   string `koanf:"browser_file"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		LastDestTitle: DefaultDestinationTitle,
		LastPrivacy:   DefaultPrivacy,
	}
}

// SettingsPath returns $XDG_CONFIG_HOME/ytmerge/settings.toml, creating the directory if needed.
func SettingsPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(AppName, "settings.toml"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return path, nil
}

// LoadSettings reads the settings file at path.
//
// The returned Settings are always usable: a missing or unreadable file yields the defaults,
// and the error (nil when the file simply does not exist yet) is only meant to be logged.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrSettings, err)
	}

	if err := k.Unmarshal("", &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrSettings, err)
	}

	if settings.LastDestTitle == "" {
		settings.LastDestTitle = DefaultDestinationTitle
	}
	if settings.LastPrivacy == "" {
		settings.LastPrivacy = DefaultPrivacy
	}
	return settings, nil
}

// SaveSettings writes every key of s to path as TOML.
func SaveSettings(path string, s Settings) error {
	k := koanf.New(".")
	values := map[string]any{
		"last_dest_title": s.LastDestTitle,
		"last_privacy":    s.LastPrivacy,
		"include_liked":   s.IncludeLiked,
		"browser_file":    s.BrowserFile,
	}
	for key, v := range values {
		if err := k.Set(key, v); err != nil {
			return fmt.Errorf("%w: %v", ErrSettings, err)
		}
	}

	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return nil
}

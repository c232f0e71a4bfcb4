package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), s)
		assert.Equal(t, "My Merged Playlist", s.LastDestTitle)
		assert.Equal(t, "PRIVATE", s.LastPrivacy)
		assert.False(t, s.IncludeLiked)
		assert.Empty(t, s.BrowserFile)
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "settings.toml")
		want := Settings{
			LastDestTitle: "Road Trip",
			LastPrivacy:   "UNLISTED",
			IncludeLiked:  true,
			BrowserFile:   "/home/me/browser.json",
		}

		require.NoError(t, SaveSettings(path, want))

		got, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("corrupt file falls back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte("last_dest_title = = ="), 0o644))

		got, err := LoadSettings(path)
		assert.True(t, errors.Is(err, ErrSettings))
		assert.Equal(t, DefaultSettings(), got)
	})

	t.Run("partial file fills defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte("include_liked = true\n"), 0o644))

		got, err := LoadSettings(path)
		require.NoError(t, err)
		assert.True(t, got.IncludeLiked)
		assert.Equal(t, DefaultDestinationTitle, got.LastDestTitle)
		assert.Equal(t, DefaultPrivacy, got.LastPrivacy)
	})
}

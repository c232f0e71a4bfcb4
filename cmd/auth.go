package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

// AuthSet validates a browser.json file and remembers its absolute path in the settings.
func (r *Runner) AuthSet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: path to browser.json", shared.ErrMissingArgument)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMissingAuthFile, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: %s is not valid JSON", shared.ErrInvalidArgument, abs)
	}

	settings := r.loadSettings()
	settings.BrowserFile = abs
	if err := r.saveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.logger.Info("auth file saved", "path", abs)
	r.writePlain("✓ Browser credentials set to %s\n", abs)
	if r.config.YouTube.AuthFile != "" && r.config.YouTube.AuthFile != abs {
		r.writePlain("Note: youtube.auth_file in the config (%s) takes precedence\n", r.config.YouTube.AuthFile)
	}
	return nil
}

// AuthTest checks proxy health, then makes one authenticated library call.
func (r *Runner) AuthTest(ctx context.Context, cmd *cli.Command) error {
	library := r.getLibrary()

	if hc, ok := library.(healthChecker); ok {
		if err := hc.Health(ctx); err != nil {
			return fmt.Errorf("proxy health check failed: %w", err)
		}
		r.writePlain("✓ Proxy reachable at %s\n", r.config.YouTube.ProxyURL)
	}

	playlists, err := library.GetLibraryPlaylists(ctx, 1)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	r.logger.Debug("auth test", "playlists", len(playlists))
	return r.writePlain("✓ Authenticated with YouTube Music\n")
}

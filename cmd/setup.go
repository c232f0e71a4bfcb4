package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// SetupDatabase creates config.toml from the template when missing, then initializes the run history database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using current config", "error", err)
		} else if config, err := shared.ResolveConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using current config", "error", err)
		} else {
			r.config = config
		}
	}

	path, err := r.config.DatabasePath()
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", path)
	if _, err := r.history(); err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Run history ready at %s\n", path)
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	path, err := r.config.DatabasePath()
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	r.logger.Info("rolled back migration", "path", path)
	return r.writePlain("✓ Rolled back the latest migration\n")
}

// SettingsShow prints the remembered settings and where they live.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	settings := r.loadSettings()

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"last_dest_title": settings.LastDestTitle,
			"last_privacy":    settings.LastPrivacy,
			"include_liked":   settings.IncludeLiked,
			"browser_file":    settings.BrowserFile,
		}, cmd.Bool("pretty"))
	}

	path, _ := r.getSettingsPath()
	r.writePlainHeader("Settings")
	r.writePlain("File:          %s\n", path)
	r.writePlain("Destination:   %s\n", settings.LastDestTitle)
	r.writePlain("Privacy:       %s\n", settings.LastPrivacy)
	r.writePlain("Liked Songs:   %t\n", settings.IncludeLiked)
	r.writePlain("Browser file:  %s\n", valueOr(settings.BrowserFile, "(not set)"))
	return nil
}

// SettingsReset writes the default settings, keeping the saved browser file.
func (r *Runner) SettingsReset(ctx context.Context, cmd *cli.Command) error {
	current := r.loadSettings()
	settings := shared.DefaultSettings()
	settings.BrowserFile = current.BrowserFile

	if err := r.saveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return r.writePlain("✓ Settings reset\n")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

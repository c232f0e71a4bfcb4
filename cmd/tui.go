package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/ui"
)

// TUI launches the interactive terminal UI for merging playlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := cmd.String("log-file")
	if logPath == "" {
		path, err := xdg.StateFile(filepath.Join(shared.AppName, "tui.log"))
		if err != nil {
			return fmt.Errorf("failed to resolve log path: %w", err)
		}
		logPath = path
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.getEngine(), ui.Options{
		Settings:     r.loadSettings(),
		SaveSettings: r.saveSettings,
		OpenURL:      r.openURL,
		Description:  cmd.String("description"),
		Logger:       fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/repositories"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/services"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	library      services.Library
	engine       *tasks.Engine
	runs         *repositories.RunRepository
	db           *sql.DB
	settingsPath string
	openURL      func(string) error
	logger       *log.Logger
	output       io.Writer
	input        *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Library is built from the config on first use. A nil Runs opens the history database lazily.
type RunnerOpts struct {
	Config       *shared.Config
	Library      services.Library
	Runs         *repositories.RunRepository
	SettingsPath string
	OpenURL      func(string) error
	Logger       *log.Logger
	Output       io.Writer
	Input        io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenURL
	}

	return &Runner{
		config:       opts.Config,
		library:      opts.Library,
		runs:         opts.Runs,
		settingsPath: opts.SettingsPath,
		openURL:      opts.OpenURL,
		logger:       opts.Logger,
		output:       opts.Output,
		input:        bufio.NewReader(opts.Input),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playlistsCommand, previewCommand, publishCommand, exportCommand, historyCommand,
		authCommand, settingsCommand, setupCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command. Its Before hook loads --config unless a config was injected.
func (r *Runner) app(injected bool) *cli.Command {
	return &cli.Command{
		Name:    shared.AppName,
		Usage:   "Merge YouTube Music playlists into one destination playlist",
		Version: "0.1.0",

		// playlist titles may contain commas
		DisableSliceFlagSeparator: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if !injected {
				config, err := shared.ResolveConfig(cmd.String("config"))
				if err != nil {
					return ctx, err
				}
				r.config = config
			}

			level, err := shared.ParseLevel(r.config.Log.Level)
			if err != nil {
				return ctx, err
			}
			if cmd.Bool("debug") {
				level = log.DebugLevel
			}
			shared.SetLogLevel(r.logger, level)
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			return r.Close()
		},
		Commands: r.register(),
	}
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the history database if it was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// authFile prefers the configured path and falls back to the one saved by `auth set`.
func (r *Runner) authFile() string {
	if r.config.YouTube.AuthFile != "" {
		return r.config.YouTube.AuthFile
	}
	settings := r.loadSettings()
	return settings.BrowserFile
}

func (r *Runner) getLibrary() services.Library {
	if r.library == nil {
		authFile := r.authFile()
		if authFile == "" {
			r.logger.Warn("no auth file configured; run 'ytmerge auth set <browser.json>'")
		}
		r.library = services.NewYTMusicService(r.config.YouTube.ProxyURL, authFile)
	}
	return r.library
}

// history returns the run repository, opening the database on first use.
func (r *Runner) history() (*repositories.RunRepository, error) {
	if r.runs != nil {
		return r.runs, nil
	}

	path, err := r.config.DatabasePath()
	if err != nil {
		return nil, err
	}
	db, err := shared.OpenHistory(path, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.runs = repositories.NewRunRepository(db)
	return r.runs, nil
}

// getEngine builds the merge engine. An unavailable history database only disables run recording.
func (r *Runner) getEngine() *tasks.Engine {
	if r.engine != nil {
		return r.engine
	}

	var recorder tasks.RunRecorder
	if runs, err := r.history(); err != nil {
		r.logger.Warn("run history disabled", "error", err)
	} else {
		recorder = repositories.NewRunRecorder(runs)
	}

	merge := r.config.Merge
	r.engine = tasks.NewEngine(r.getLibrary(), tasks.EngineOpts{
		Logger: r.logger,
		Limits: tasks.Limits{
			Library:  merge.LibraryLimit,
			Playlist: merge.PlaylistLimit,
			Liked:    merge.LikedLimit,
		},
		Publisher: tasks.PublisherOpts{
			BatchSize:          merge.BatchSize,
			RequestsPerSecond:  merge.RequestsPerSecond,
			BaseURL:            r.config.YouTube.BaseURL,
			DefaultDescription: merge.DefaultDescription,
			Recorder:           recorder,
		},
	})
	return r.engine
}

func (r *Runner) getSettingsPath() (string, error) {
	if r.settingsPath == "" {
		path, err := shared.SettingsPath()
		if err != nil {
			return "", err
		}
		r.settingsPath = path
	}
	return r.settingsPath, nil
}

// loadSettings never fails; problems are logged and the defaults returned.
func (r *Runner) loadSettings() shared.Settings {
	path, err := r.getSettingsPath()
	if err != nil {
		r.logger.Warn("settings unavailable", "error", err)
		return shared.DefaultSettings()
	}
	settings, err := shared.LoadSettings(path)
	if err != nil {
		r.logger.Warn("failed to load settings", "path", path, "error", err)
	}
	return settings
}

func (r *Runner) saveSettings(s shared.Settings) error {
	path, err := r.getSettingsPath()
	if err != nil {
		return err
	}
	return shared.SaveSettings(path, s)
}

// resolveSources matches each --source value against playlist ids first, then titles.
func resolveSources(playlists []models.Playlist, refs []string) ([]models.Playlist, error) {
	selected := make([]models.Playlist, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}

		var match *models.Playlist
		for i := range playlists {
			if playlists[i].ID == ref {
				match = &playlists[i]
				break
			}
		}
		if match == nil {
			match = models.FindPlaylist(playlists, ref)
		}
		if match == nil {
			return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, ref)
		}
		selected = append(selected, *match)
	}
	return selected, nil
}

// confirm asks a yes/no question on the runner's input; anything but y/yes is a no.
func (r *Runner) confirm(question string) (bool, error) {
	if err := r.writePlain("%s [y/N]: ", question); err != nil {
		return false, err
	}
	answer, err := r.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

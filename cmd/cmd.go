// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// selectionFlags choose the destination and sources; unset flags fall back to saved settings.
func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dest",
			Aliases: []string{"d"},
			Usage:   "Destination playlist title (defaults to the last one used)",
		},
		&cli.StringSliceFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Source playlist id or title (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Use every library playlist except the destination as a source",
		},
		&cli.BoolFlag{
			Name:  "liked",
			Usage: "Include Liked Songs as a source",
		},
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List library playlists available as sources",
		Flags:   outputFlags(),
		Action:  r.Playlists,
	}
}

func previewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "preview",
		Usage:  "Plan a merge and show what would be added or skipped",
		Flags:  append(selectionFlags(), outputFlags()...),
		Action: r.Preview,
	}
}

func publishCommand(r *Runner) *cli.Command {
	flags := append(selectionFlags(),
		&cli.StringFlag{
			Name:    "privacy",
			Aliases: []string{"p"},
			Usage:   "Privacy for a newly created destination: PRIVATE, UNLISTED or PUBLIC",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Description for a newly created destination",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Publish without asking for confirmation",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open the playlist in the browser when done",
		},
	)

	return &cli.Command{
		Name:   "publish",
		Usage:  "Preview a merge, confirm, and add the new tracks to the destination",
		Flags:  flags,
		Action: r.Publish,
	}
}

func exportCommand(r *Runner) *cli.Command {
	flags := append(selectionFlags(),
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "Output file path",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: csv, json or txt (inferred from the file extension when omitted)",
		},
	)

	return &cli.Command{
		Name:   "export",
		Usage:  "Write a merge preview to a file",
		Flags:  flags,
		Action: r.Export,
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded publish runs",
		Flags: append(outputFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status: pending, in_progress, completed or failed",
			},
			&cli.StringFlag{
				Name:  "dest",
				Usage: "Filter by destination title",
			},
		),
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:      "delete",
				Usage:     "Remove a run from the history",
				ArgsUsage: "<run-id>",
				Action:    r.HistoryDelete,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage YouTube Music browser credentials",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Remember the browser.json file used to authenticate with the proxy",
				ArgsUsage: "<browser.json>",
				Action:    r.AuthSet,
			},
			{
				Name:   "test",
				Usage:  "Check the proxy is reachable and the credentials work",
				Action: r.AuthTest,
			},
		},
	}
}

func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Inspect remembered settings",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the saved settings",
				Flags:  outputFlags(),
				Action: r.SettingsShow,
			},
			{
				Name:   "reset",
				Usage:  "Restore the default settings",
				Action: r.SettingsReset,
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the run history database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if missing and run database migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the merge HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "description",
				Usage: "Description for a newly created destination",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file path while the TUI owns the terminal",
			},
		},
		Action: r.TUI,
	}
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// History lists recorded publish runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	runs, err := r.history()
	if err != nil {
		return fmt.Errorf("run history unavailable: %w", err)
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if status := cmd.String("status"); status != "" {
		switch s := models.RunStatus(strings.ToLower(status)); s {
		case models.RunPending, models.RunInProgress, models.RunCompleted, models.RunFailed:
			criteria["status"] = string(s)
		default:
			return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, status)
		}
	}
	if dest := cmd.String("dest"); dest != "" {
		criteria["destination_title"] = dest
	}

	list, err := runs.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if list == nil {
			list = []*models.MergeRun{}
		}
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	if len(list) == 0 {
		return r.writePlain("No runs recorded yet\n")
	}

	r.writePlainHeader("Publish history")
	for _, run := range list {
		r.writePlain("#%-4d %-30s %-11s %s/%s tracks  %s\n",
			run.Sequence,
			run.DestinationTitle,
			run.Status,
			humanize.Comma(int64(run.TracksAdded)),
			humanize.Comma(int64(run.TracksTotal)),
			humanize.Time(run.Created),
		)
		switch {
		case run.PlaylistURL != "":
			r.writePlain("      %s\n", run.PlaylistURL)
		case run.ErrorMessage != "":
			r.writePlain("      %s\n", run.ErrorMessage)
		}
		r.writePlain("      id: %s\n", run.RunID)
	}
	return nil
}

// HistoryDelete soft-deletes one recorded run.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	runs, err := r.history()
	if err != nil {
		return fmt.Errorf("run history unavailable: %w", err)
	}
	if err := runs.Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted run %s\n", id)
}

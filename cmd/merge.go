package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/formatter"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
)

// selection is a resolved destination and source set for one command invocation.
type selection struct {
	destination  string
	sources      []models.SourceDescriptor
	includeLiked bool
	settings     shared.Settings
}

// recorded returns the sources stored with a publish run, liked songs included.
func (s selection) recorded() []models.SourceDescriptor {
	if !s.includeLiked {
		return s.sources
	}
	return append(append([]models.SourceDescriptor{}, s.sources...), models.LikedSongs())
}

func (r *Runner) selection(ctx context.Context, cmd *cli.Command) (*selection, error) {
	settings := r.loadSettings()

	dest := settings.LastDestTitle
	if cmd.IsSet("dest") {
		dest = cmd.String("dest")
	}
	liked := settings.IncludeLiked
	if cmd.IsSet("liked") {
		liked = cmd.Bool("liked")
	}

	var selected []models.Playlist
	if cmd.Bool("all") || len(cmd.StringSlice("source")) > 0 {
		playlists, err := r.getEngine().Playlists(ctx)
		if err != nil {
			return nil, err
		}
		if cmd.Bool("all") {
			selected = playlists
		} else if selected, err = resolveSources(playlists, cmd.StringSlice("source")); err != nil {
			return nil, err
		}
	}

	return &selection{
		destination:  dest,
		sources:      tasks.SelectSources(selected, dest),
		includeLiked: liked,
		settings:     settings,
	}, nil
}

// plan runs a preview, echoing status updates unless quiet.
func (r *Runner) plan(ctx context.Context, sel *selection, quiet bool) (*models.MergePlan, error) {
	task, err := r.getEngine().StartPreview(ctx, tasks.PreviewRequest{
		DestinationTitle: sel.destination,
		Sources:          sel.sources,
		IncludeLiked:     sel.includeLiked,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate preview: %w", err)
	}

	for u := range task.Updates() {
		r.logger.Debug("preview", "phase", u.Phase, "message", u.Message)
		if !quiet {
			r.writePlain("  %s\n", u.Message)
		}
	}

	plan, err := task.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to generate preview: %w", err)
	}
	return plan, nil
}

// Playlists lists the library playlists that can be merged.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.getEngine().Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Library playlists (%s)", humanize.Comma(int64(len(playlists)))))
	for _, p := range playlists {
		title := runewidth.FillRight(runewidth.Truncate(p.Title, 40, "…"), 40)
		r.writePlain("%s %10s tracks  %s\n", title, humanize.Comma(int64(p.Count)), p.ID)
	}
	return nil
}

// Preview shows what a merge would add and skip without writing anything.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	sel, err := r.selection(ctx, cmd)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	plan, err := r.plan(ctx, sel, asJSON)
	if err != nil {
		return err
	}

	preview := models.NewPreview(plan)
	if asJSON {
		return r.writeJSON(preview, cmd.Bool("pretty"))
	}
	r.writePlainln(tasks.PreviewSuccessMessage)
	return r.writePlain("%s", formatter.PreviewText(preview))
}

// Publish previews a merge, asks for confirmation unless --yes, then adds the new tracks.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	sel, err := r.selection(ctx, cmd)
	if err != nil {
		return err
	}

	privacyValue := sel.settings.LastPrivacy
	if cmd.IsSet("privacy") {
		privacyValue = cmd.String("privacy")
	}
	privacy, err := models.ParsePrivacy(privacyValue)
	if err != nil {
		return err
	}

	plan, err := r.plan(ctx, sel, false)
	if err != nil {
		return err
	}
	preview := models.NewPreview(plan)
	r.writePlainln(tasks.PreviewSuccessMessage)
	r.writePlain("%s", formatter.PreviewText(preview))

	sel.settings.LastDestTitle = sel.destination
	sel.settings.LastPrivacy = privacy.String()
	sel.settings.IncludeLiked = sel.includeLiked
	if err := r.saveSettings(sel.settings); err != nil {
		r.logger.Warn("failed to save settings", "error", err)
	}

	if len(preview.VideoIDs) == 0 {
		return r.writePlainln(tasks.NothingToAddMessage)
	}

	if !cmd.Bool("yes") {
		target := fmt.Sprintf("a new %s playlist", strings.ToLower(privacy.String()))
		if plan.Destination.Exists() {
			target = "the existing playlist"
		}
		question := fmt.Sprintf("\nAdd %s tracks to '%s' (%s)?",
			humanize.Comma(int64(len(preview.VideoIDs))), sel.destination, target)
		ok, err := r.confirm(question)
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Publish cancelled\n")
		}
	}

	task, err := r.getEngine().StartPublish(ctx, tasks.PublishRequest{
		VideoIDs:         preview.VideoIDs,
		DestinationTitle: sel.destination,
		Privacy:          privacy,
		Description:      cmd.String("description"),
		Sources:          sel.recorded(),
	})
	if err != nil {
		return err
	}

	for u := range task.Updates() {
		if u.IsProgress() {
			r.writePlain("%s\n", progressLine(u))
			continue
		}
		r.writePlain("  %s\n", u.Message)
	}

	result, err := task.Result()
	if result != nil {
		r.writePlainln("%s", result.Message)
		if result.Success {
			r.writePlain("Playlist: %s\n", result.PlaylistURL)
			if cmd.Bool("open") {
				if err := r.openURL(result.PlaylistURL); err != nil {
					r.logger.Warn("failed to open browser", "error", err)
				}
			}
		}
	}
	return err
}

// Export writes a merge preview to --output as csv, json or txt.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	var format formatter.Format
	if cmd.IsSet("format") {
		f, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		format = f
	}

	sel, err := r.selection(ctx, cmd)
	if err != nil {
		return err
	}
	plan, err := r.plan(ctx, sel, false)
	if err != nil {
		return err
	}

	preview := models.NewPreview(plan)
	if err := formatter.WritePreview(preview, format, path); err != nil {
		return fmt.Errorf("failed to export preview: %w", err)
	}

	r.logger.Info("exported preview", "path", path, "to_add", len(preview.ToAdd), "skipped", len(preview.Skipped))
	return r.writePlain("✓ Exported %s tracks to add and %s skipped to %s\n",
		humanize.Comma(int64(len(preview.ToAdd))), humanize.Comma(int64(len(preview.Skipped))), path)
}

// progressLine renders a publish progress update as a fixed width text bar.
func progressLine(u tasks.ProgressUpdate) string {
	const width = 20
	filled := min(max(u.Percent*width/100, 0), width)
	return fmt.Sprintf("[%s%s] %3d%% %s", strings.Repeat("#", filled), strings.Repeat("-", width-filled), u.Percent, u.Message)
}

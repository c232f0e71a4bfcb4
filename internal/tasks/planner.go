package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// Planner computes a [models.MergePlan] from a destination title and a list of sources.
type Planner struct {
	fetcher *Fetcher
	logger  *log.Logger
}

func NewPlanner(fetcher *Fetcher, logger *log.Logger) *Planner {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Planner{fetcher: fetcher, logger: shared.WithLogger(logger, "component", "planner")}
}

// ResolveDestination finds the destination by title and reads the video ids it already holds.
//
// A failed listing is fatal. A failed track read only logs a warning and leaves the existing set empty.
func (p *Planner) ResolveDestination(ctx context.Context, title string, progress chan<- ProgressUpdate) (models.DestinationState, error) {
	dest := models.DestinationState{Title: title, Existing: map[string]struct{}{}}

	sendProgress(ctx, progress, checkDestinationUpdate())
	playlists, err := p.fetcher.Playlists(ctx)
	if err != nil {
		return dest, err
	}

	found := models.FindPlaylist(playlists, title)
	if found == nil || found.ID == "" {
		return dest, nil
	}
	dest.PlaylistID = found.ID

	sendProgress(ctx, progress, readDestinationUpdate())
	p.logger.Info("found existing destination playlist", "id", dest.PlaylistID)

	tracks, err := p.fetcher.Fetch(ctx, models.SourceDescriptor{Title: found.Title, PlaylistID: found.ID})
	if err != nil {
		p.logger.Warn("failed to get destination tracks", "err", shared.ErrDestinationTracks, "cause", err)
		return dest, nil
	}

	for _, t := range tracks {
		if t.VideoID != "" {
			dest.Existing[t.VideoID] = struct{}{}
		}
	}
	p.logger.Info("destination tracks read", "existing", len(dest.Existing))
	return dest, nil
}

// Plan fetches every source in order (liked songs last when includeLiked is set) and classifies each track.
//
// Precedence per track: no video id, then already in destination, then duplicate of an earlier accepted track.
// A source that fails to fetch is logged and contributes no tracks.
func (p *Planner) Plan(ctx context.Context, destinationTitle string, sources []models.SourceDescriptor, includeLiked bool, progress chan<- ProgressUpdate) (*models.MergePlan, error) {
	p.logger.Info("generating preview", "sources", len(sources), "include_liked", includeLiked)

	dest, err := p.ResolveDestination(ctx, destinationTitle, progress)
	if err != nil {
		return nil, err
	}

	c := newClassifier(dest)
	for i, src := range sources {
		sendProgress(ctx, progress, processSourceUpdate(i+1, len(sources), src.Label()))
		c.consume(p.fetchLogged(ctx, src))
	}

	if includeLiked {
		sendProgress(ctx, progress, processLikedUpdate())
		c.consume(p.fetchLogged(ctx, models.LikedSongs()))
	}

	plan := c.plan()
	p.logger.Info("preview complete", "to_add", plan.Stats.ToAdd, "skipped", plan.Stats.Skipped)
	return plan, nil
}

func (p *Planner) fetchLogged(ctx context.Context, src models.SourceDescriptor) []models.Track {
	tracks, err := p.fetcher.Fetch(ctx, src)
	if err != nil {
		p.logger.Error("failed to process source", "source", src.Label(), "err", err)
		return nil
	}
	p.logger.Debug("fetched source", "source", src.Label(), "tracks", len(tracks))
	return tracks
}

// classifier holds the per-run accepted set. It is never shared between runs.
type classifier struct {
	dest    models.DestinationState
	seen    map[string]struct{}
	toAdd   []models.Track
	skipped []models.SkippedTrack
	stats   models.PlanStats
}

func newClassifier(dest models.DestinationState) *classifier {
	return &classifier{
		dest:    dest,
		seen:    make(map[string]struct{}),
		toAdd:   []models.Track{},
		skipped: []models.SkippedTrack{},
	}
}

func (c *classifier) consume(tracks []models.Track) {
	for _, t := range tracks {
		c.stats.Total++
		switch {
		case t.VideoID == "":
			c.skip(t, models.SkipNoVideoID)
			c.stats.NoVideoID++
		case c.dest.Contains(t.VideoID):
			c.skip(t, models.SkipAlreadyInDestination)
			c.stats.AlreadyInDestination++
		case c.isSeen(t.VideoID):
			c.skip(t, models.SkipDuplicate)
			c.stats.Duplicates++
		default:
			c.seen[t.VideoID] = struct{}{}
			c.toAdd = append(c.toAdd, t)
		}
	}
}

func (c *classifier) isSeen(id string) bool {
	_, ok := c.seen[id]
	return ok
}

func (c *classifier) skip(t models.Track, reason models.SkipReason) {
	c.skipped = append(c.skipped, models.SkippedTrack{Track: t, Reason: reason})
}

func (c *classifier) plan() *models.MergePlan {
	c.stats.ToAdd = len(c.toAdd)
	c.stats.Skipped = len(c.skipped)
	c.stats.DestinationExists = c.dest.Exists()
	return &models.MergePlan{
		ToAdd:       c.toAdd,
		Skipped:     c.skipped,
		Stats:       c.stats,
		Destination: c.dest,
	}
}

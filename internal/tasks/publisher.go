package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/services"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

const (
	DefaultBatchSize   = 50
	DefaultBaseURL     = "https://music.youtube.com"
	DefaultDescription = "Auto-merged playlist from YouTube Music"
)

// PublishRequest carries the ids of an accepted plan to the publisher.
type PublishRequest struct {
	VideoIDs         []string
	DestinationTitle string
	Privacy          models.Privacy
	Description      string
	Sources          []models.SourceDescriptor // recorded with the run only
}

// RunRecorder persists publish runs. Recorder failures never fail a publish.
type RunRecorder interface {
	StartRun(ctx context.Context, run *models.MergeRun) error
	RecordProgress(ctx context.Context, runID string, added int) error
	FinishRun(ctx context.Context, runID string, result *models.PublishResult) error
}

// PublisherOpts configures a [Publisher].
type PublisherOpts struct {
	BatchSize          int     // ids per AddPlaylistItems call (default: 50)
	RequestsPerSecond  float64 // batch pacing; 0 disables the limiter
	BaseURL            string  // playlist URL base (default: https://music.youtube.com)
	DefaultDescription string
	Recorder           RunRecorder
}

// Publisher writes a plan to the destination playlist in batches.
type Publisher struct {
	library  services.Library
	fetcher  *Fetcher
	logger   *log.Logger
	limiter  *rate.Limiter
	opts     PublisherOpts
	recorder RunRecorder
}

func NewPublisher(library services.Library, fetcher *Fetcher, logger *log.Logger, opts PublisherOpts) *Publisher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.DefaultDescription == "" {
		opts.DefaultDescription = DefaultDescription
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Publisher{
		library:  library,
		fetcher:  fetcher,
		logger:   shared.WithLogger(logger, "component", "publisher"),
		limiter:  rate.NewLimiter(limit, 1),
		opts:     opts,
		recorder: opts.Recorder,
	}
}

// PlaylistURL returns the public URL of a playlist.
func (p *Publisher) PlaylistURL(id string) string {
	return fmt.Sprintf("%s/playlist?list=%s", strings.TrimSuffix(p.opts.BaseURL, "/"), id)
}

// Batches splits ids into consecutive chunks of at most size, preserving order.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		end := min(i+size, len(ids))
		batches = append(batches, ids[i:end])
	}
	return batches
}

// Publish finds or creates the destination and appends req.VideoIDs in batches.
//
// The returned result is never nil. On failure it reports how many tracks were committed before
// the failing call and the error wraps [shared.ErrPublish]. Committed batches are not rolled back.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest, progress chan<- ProgressUpdate) (*models.PublishResult, error) {
	result := &models.PublishResult{}
	total := len(req.VideoIDs)

	privacy := req.Privacy
	if privacy == "" {
		privacy = models.PrivacyPrivate
	}

	run := &models.MergeRun{
		RunID:            shared.GenerateID(),
		DestinationTitle: req.DestinationTitle,
		Privacy:          privacy,
		Status:           models.RunInProgress,
		TracksTotal:      total,
		Sources:          req.Sources,
	}
	p.record("start", func() error {
		now := time.Now()
		run.StartedAt = &now
		return p.recorder.StartRun(ctx, run)
	})

	p.logger.Info("publishing", "tracks", total, "destination", req.DestinationTitle)

	sendProgress(ctx, progress, findDestinationUpdate())
	playlists, err := p.fetcher.Playlists(ctx)
	if err != nil {
		return p.fail(ctx, result, run.RunID, err)
	}

	if found := models.FindPlaylist(playlists, req.DestinationTitle); found != nil && found.ID != "" {
		result.PlaylistID = found.ID
		p.logger.Info("found existing playlist", "id", found.ID)
	} else {
		sendProgress(ctx, progress, createPlaylistUpdate(req.DestinationTitle))
		description := req.Description
		if description == "" {
			description = p.opts.DefaultDescription
		}

		id, err := p.library.CreatePlaylist(ctx, req.DestinationTitle, description, privacy)
		if err != nil {
			return p.fail(ctx, result, run.RunID, err)
		}
		result.PlaylistID = id
		result.Created = true
		p.logger.Info("created new playlist", "id", id)
	}

	batches := Batches(req.VideoIDs, p.opts.BatchSize)
	for i, batch := range batches {
		n := i + 1
		sendProgress(ctx, progress, addingBatchUpdate(n, len(batches)))

		if err := p.limiter.Wait(ctx); err != nil {
			return p.fail(ctx, result, run.RunID, err)
		}
		if err := p.library.AddPlaylistItems(ctx, result.PlaylistID, batch, false); err != nil {
			return p.fail(ctx, result, run.RunID, fmt.Errorf("batch %d/%d: %w", n, len(batches), err))
		}

		result.Added += len(batch)
		result.Batches = n
		p.record("progress", func() error { return p.recorder.RecordProgress(ctx, run.RunID, result.Added) })

		sendProgress(ctx, progress, batchAddedUpdate(n, len(batches), result.Added, total))
		p.logger.Info("added batch", "batch", n, "of", len(batches), "tracks", len(batch))
	}

	result.Success = true
	result.Message = fmt.Sprintf("Successfully added %d tracks!", total)
	result.PlaylistURL = p.PlaylistURL(result.PlaylistID)
	p.record("finish", func() error { return p.recorder.FinishRun(ctx, run.RunID, result) })

	p.logger.Info("successfully published playlist", "url", result.PlaylistURL)
	return result, nil
}

func (p *Publisher) fail(ctx context.Context, result *models.PublishResult, runID string, cause error) (*models.PublishResult, error) {
	err := fmt.Errorf("%w: %w", shared.ErrPublish, cause)
	result.Success = false
	result.PlaylistURL = ""
	result.Message = fmt.Sprintf("Publishing failed: %v", cause)

	if runID != "" {
		p.record("finish", func() error { return p.recorder.FinishRun(ctx, runID, result) })
	}
	p.logger.Error("publishing failed", "err", cause, "added", result.Added)
	return result, err
}

func (p *Publisher) record(step string, fn func() error) {
	if p.recorder == nil {
		return
	}
	if err := fn(); err != nil {
		p.logger.Warn("failed to record run", "step", step, "err", err)
	}
}

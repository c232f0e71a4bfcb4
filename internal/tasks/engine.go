package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/services"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

const (
	PreviewSuccessMessage = "Preview generated successfully"
	NothingToAddMessage   = "No tracks to add to playlist"
)

// PreviewFailedMessage is the user-facing text for a failed preview.
func PreviewFailedMessage(err error) string {
	return fmt.Sprintf("Failed to generate preview: %v", err)
}

// PreviewRequest names what to merge and where.
type PreviewRequest struct {
	DestinationTitle string
	Sources          []models.SourceDescriptor
	IncludeLiked     bool
}

// EngineOpts configures an [Engine].
type EngineOpts struct {
	Logger    *log.Logger
	Limits    Limits
	Publisher PublisherOpts
}

// Engine sequences playlist listing, planning, and publishing for the CLI, TUI and HTTP surfaces.
//
// At most one preview and one publish run at a time; a concurrent call fails with [shared.ErrBusy].
type Engine struct {
	fetcher   *Fetcher
	planner   *Planner
	publisher *Publisher
	logger    *log.Logger

	previewing atomic.Bool
	publishing atomic.Bool
}

// NewEngine creates an Engine over library.
func NewEngine(library services.Library, opts EngineOpts) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	fetcher := NewFetcher(library, opts.Limits)
	return &Engine{
		fetcher:   fetcher,
		planner:   NewPlanner(fetcher, logger),
		publisher: NewPublisher(library, fetcher, logger, opts.Publisher),
		logger:    shared.WithLogger(logger, "component", "engine"),
	}
}

// Playlists lists the library playlists available for selection. Entries without an id are dropped.
func (e *Engine) Playlists(ctx context.Context) ([]models.Playlist, error) {
	playlists, err := e.fetcher.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if p.ID == "" {
			continue
		}
		if p.Title == "" {
			p.Title = "Untitled"
		}
		out = append(out, p)
	}
	e.logger.Info("loaded playlists", "count", len(out))
	return out, nil
}

// SelectSources turns selected playlists into sources, dropping the destination itself and entries without an id.
func SelectSources(selected []models.Playlist, destinationTitle string) []models.SourceDescriptor {
	sources := make([]models.SourceDescriptor, 0, len(selected))
	for _, p := range selected {
		if p.ID == "" || models.TitlesMatch(p.Title, destinationTitle) {
			continue
		}
		sources = append(sources, models.SourceDescriptor{Title: p.Title, PlaylistID: p.ID})
	}
	return sources
}

func validateDestination(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: destination title is required", shared.ErrInvalidInput)
	}
	return nil
}

func (r PreviewRequest) validate() error {
	if err := validateDestination(r.DestinationTitle); err != nil {
		return err
	}
	if len(r.Sources) == 0 && !r.IncludeLiked {
		return fmt.Errorf("%w: select at least one playlist", shared.ErrNoSources)
	}
	return nil
}

func (r PublishRequest) validate() error {
	if err := validateDestination(r.DestinationTitle); err != nil {
		return err
	}
	if len(r.VideoIDs) == 0 {
		return shared.ErrNothingToAdd
	}
	return nil
}

func acquire(flag *atomic.Bool, op string) error {
	if !flag.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", shared.ErrBusy, op)
	}
	return nil
}

// Preview plans a merge. progress may be nil.
func (e *Engine) Preview(ctx context.Context, req PreviewRequest, progress chan<- ProgressUpdate) (*models.MergePlan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := acquire(&e.previewing, "preview"); err != nil {
		return nil, err
	}
	defer e.previewing.Store(false)

	return e.planner.Plan(ctx, req.DestinationTitle, req.Sources, req.IncludeLiked, progress)
}

// Publish writes an accepted plan. The result is nil only when the request is rejected before starting.
func (e *Engine) Publish(ctx context.Context, req PublishRequest, progress chan<- ProgressUpdate) (*models.PublishResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := acquire(&e.publishing, "publish"); err != nil {
		return nil, err
	}
	defer e.publishing.Store(false)

	return e.publisher.Publish(ctx, req, progress)
}

// StartPreview runs [Engine.Preview] in the background. The busy check happens before returning.
func (e *Engine) StartPreview(ctx context.Context, req PreviewRequest) (*Task[*models.MergePlan], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := acquire(&e.previewing, "preview"); err != nil {
		return nil, err
	}

	return Start(ctx, func(ctx context.Context, progress chan<- ProgressUpdate) (*models.MergePlan, error) {
		defer e.previewing.Store(false)
		return e.planner.Plan(ctx, req.DestinationTitle, req.Sources, req.IncludeLiked, progress)
	}), nil
}

// StartPublish runs [Engine.Publish] in the background. The busy check happens before returning.
func (e *Engine) StartPublish(ctx context.Context, req PublishRequest) (*Task[*models.PublishResult], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := acquire(&e.publishing, "publish"); err != nil {
		return nil, err
	}

	return Start(ctx, func(ctx context.Context, progress chan<- ProgressUpdate) (*models.PublishResult, error) {
		defer e.publishing.Store(false)
		return e.publisher.Publish(ctx, req, progress)
	}), nil
}

// PlaylistURL returns the public URL of a playlist id.
func (e *Engine) PlaylistURL(id string) string {
	return e.publisher.PlaylistURL(id)
}

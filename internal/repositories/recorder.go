package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
)

// RunRecorder implements tasks.RunRecorder using RunRepository.
type RunRecorder struct {
	repo *RunRepository
}

// NewRunRecorder creates a new RunRecorder with the given repository
func NewRunRecorder(repo *RunRepository) *RunRecorder {
	return &RunRecorder{repo: repo}
}

// StartRun stores a newly started publish.
func (r *RunRecorder) StartRun(ctx context.Context, run *models.MergeRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if run.StartedAt == nil {
		now := time.Now()
		run.StartedAt = &now
	}
	return r.repo.Create(run)
}

// RecordProgress stores the committed track count after a batch.
func (r *RunRecorder) RecordProgress(ctx context.Context, runID string, added int) error {
	return r.repo.UpdateProgress(runID, added)
}

// FinishRun stores the terminal outcome of a publish.
func (r *RunRecorder) FinishRun(ctx context.Context, runID string, result *models.PublishResult) error {
	run, err := r.repo.Get(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	now := time.Now()
	run.CompletedAt = &now
	run.TracksAdded = result.Added
	run.DestinationID = result.PlaylistID
	if result.Success {
		run.Status = models.RunCompleted
		run.PlaylistURL = result.PlaylistURL
		run.ErrorMessage = ""
	} else {
		run.Status = models.RunFailed
		run.ErrorMessage = result.Message
	}
	return r.repo.Update(run)
}

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// RunStatus represents the state of a recorded publish run.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// MergeRun is a persisted record of one publish attempt.
type MergeRun struct {
	RunID            string
	Sequence         int
	DestinationTitle string
	DestinationID    string
	Privacy          Privacy
	Status           RunStatus
	TracksTotal      int
	TracksAdded      int
	ErrorMessage     string
	PlaylistURL      string
	Sources          []SourceDescriptor
	StartedAt        *time.Time
	CompletedAt      *time.Time
	Created          time.Time
	Updated          time.Time
	DeletedAt        *time.Time
}

func (r *MergeRun) ID() string           { return r.RunID }
func (r *MergeRun) CreatedAt() time.Time { return r.Created }
func (r *MergeRun) UpdatedAt() time.Time { return r.Updated }

func (r *MergeRun) Validate() error {
	if strings.TrimSpace(r.DestinationTitle) == "" {
		return fmt.Errorf("%w: destination title is required", shared.ErrInvalidInput)
	}
	if r.TracksTotal < 0 || r.TracksAdded < 0 || r.TracksAdded > r.TracksTotal {
		return fmt.Errorf("%w: tracks added %d of %d", shared.ErrInvalidInput, r.TracksAdded, r.TracksTotal)
	}
	switch r.Status {
	case RunPending, RunInProgress, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("%w: unknown run status %q", shared.ErrInvalidInput, r.Status)
	}
	return nil
}

// Finished reports whether the run reached a terminal status.
func (r *MergeRun) Finished() bool {
	return r.Status == RunCompleted || r.Status == RunFailed
}

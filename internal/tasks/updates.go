package tasks

import (
	"context"
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Percent int    // Publish completion, 0-100; -1 for pure status updates
	Message string // Human-readable message for display
}

// IsProgress reports whether the update carries a completion percentage.
func (u ProgressUpdate) IsProgress() bool {
	return u.Percent >= 0
}

// Operation phase enumeration
type Phase int

const (
	CheckDestination Phase = iota
	ReadDestination
	ProcessSource
	ProcessLiked
	FindDestination
	CreatePlaylist
	AddBatch
)

func (p Phase) String() string {
	switch p {
	case CheckDestination:
		return "check_destination"
	case ReadDestination:
		return "read_destination"
	case ProcessSource:
		return "process_source"
	case ProcessLiked:
		return "process_liked"
	case FindDestination:
		return "find_destination"
	case CreatePlaylist:
		return "create_playlist"
	case AddBatch:
		return "add_batch"
	default:
		return ""
	}
}

// sendProgress delivers update in order, waiting for channel capacity until ctx ends.
func sendProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	case <-ctx.Done():
	}
}

func statusUpdate(phase Phase, step, total int, message string) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Step: step, Total: total, Percent: -1, Message: message}
}

func checkDestinationUpdate() ProgressUpdate {
	return statusUpdate(CheckDestination, 1, 1, "Checking destination playlist...")
}

func readDestinationUpdate() ProgressUpdate {
	return statusUpdate(ReadDestination, 1, 1, "Reading existing tracks in destination...")
}

func processSourceUpdate(step, total int, title string) ProgressUpdate {
	return statusUpdate(ProcessSource, step, total, fmt.Sprintf("Processing: %s", title))
}

func processLikedUpdate() ProgressUpdate {
	return statusUpdate(ProcessLiked, 1, 1, "Processing liked songs...")
}

func findDestinationUpdate() ProgressUpdate {
	return statusUpdate(FindDestination, 1, 1, "Finding destination playlist...")
}

func createPlaylistUpdate(title string) ProgressUpdate {
	return statusUpdate(CreatePlaylist, 1, 1, fmt.Sprintf("Creating new playlist: %s", title))
}

func addingBatchUpdate(batch, total int) ProgressUpdate {
	return statusUpdate(AddBatch, batch, total, fmt.Sprintf("Adding batch %d/%d...", batch, total))
}

// batchAddedUpdate reports floor(added*100/total) after a batch commits.
func batchAddedUpdate(batch, batches, added, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddBatch,
		Step:    batch,
		Total:   batches,
		Percent: added * 100 / total,
		Message: fmt.Sprintf("Added batch %d/%d (%d/%d tracks)", batch, batches, added, total),
	}
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgProgressUpdate
	MsgPreviewComplete
	MsgPublishComplete
)

type playlistsFetched struct {
	playlists []models.Playlist
	err       error
}

type previewComplete struct {
	plan *models.MergePlan
	err  error
}

type publishComplete struct {
	result *models.PublishResult
	err    error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// previewCompleteMsg is the constructor for [MsgPreviewComplete]
func previewCompleteMsg(plan *models.MergePlan, err error) Msg {
	return Msg{kind: MsgPreviewComplete, data: previewComplete{plan, err}}
}

// publishCompleteMsg is the constructor for [MsgPublishComplete]
func publishCompleteMsg(result *models.PublishResult, err error) Msg {
	return Msg{kind: MsgPublishComplete, data: publishComplete{result, err}}
}

// waitForTask delivers the next update of task, or its outcome once the updates are exhausted.
func waitForTask[T any](task *tasks.Task[T], done func(T, error) Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-task.Updates()
		if !ok {
			return done(task.Result())
		}
		return progressUpdateMsg(update)
	}
}

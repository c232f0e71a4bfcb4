package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.Playlist] to implement [list.Item] with a selection mark.
type playlistItem struct {
	playlist models.Playlist
	selected bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string {
	if i.selected {
		return "[x] " + i.playlist.Title
	}
	return "[ ] " + i.playlist.Title
}
func (i playlistItem) Description() string {
	desc := humanize.Comma(int64(i.playlist.Count)) + " tracks"
	if i.playlist.Count == 0 {
		desc = "track count unknown"
	}
	if i.playlist.Description != "" {
		desc += " • " + i.playlist.Description
	}
	return desc
}

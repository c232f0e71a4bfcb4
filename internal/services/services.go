// package services defines the [Library] interface for the remote music library and its
// implementation against the ytmusicapi HTTP proxy
package services

import (
	"context"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
)

// Library is the remote music library the merge pipeline reads from and writes to.
type Library interface {
	// GetLibraryPlaylists lists the user's playlists, at most limit of them, in library order.
	GetLibraryPlaylists(ctx context.Context, limit int) ([]models.Playlist, error)

	// GetPlaylistTracks returns up to limit tracks of a playlist in playlist order.
	GetPlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.RawTrack, error)

	// GetLikedSongs returns up to limit tracks of the liked-songs collection.
	GetLikedSongs(ctx context.Context, limit int) ([]models.RawTrack, error)

	// CreatePlaylist creates an empty playlist and returns its id.
	CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (string, error)

	// AddPlaylistItems appends videoIDs to a playlist. With duplicates false the remote
	// side skips ids the playlist already holds.
	AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string, duplicates bool) error
}

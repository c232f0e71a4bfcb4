package tasks

import (
	"context"
	"fmt"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/services"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// Limits caps how many records each remote call may return.
type Limits struct {
	Library  int // library playlist listing
	Playlist int // tracks per playlist
	Liked    int // liked songs
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{Library: 10000, Playlist: 10000, Liked: 100000}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.Library <= 0 {
		l.Library = d.Library
	}
	if l.Playlist <= 0 {
		l.Playlist = d.Playlist
	}
	if l.Liked <= 0 {
		l.Liked = d.Liked
	}
	return l
}

// Fetcher turns a [models.SourceDescriptor] into normalized tracks with a single remote call.
type Fetcher struct {
	library services.Library
	limits  Limits
}

// NewFetcher creates a Fetcher. Zero limits fall back to [DefaultLimits].
func NewFetcher(library services.Library, limits Limits) *Fetcher {
	return &Fetcher{library: library, limits: limits.withDefaults()}
}

// Playlists lists the library playlists.
func (f *Fetcher) Playlists(ctx context.Context) ([]models.Playlist, error) {
	playlists, err := f.library.GetLibraryPlaylists(ctx, f.limits.Library)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrDestinationLookup, err)
	}
	return playlists, nil
}

// Fetch retrieves one source. The liked-songs descriptor goes through the liked path.
func (f *Fetcher) Fetch(ctx context.Context, src models.SourceDescriptor) ([]models.Track, error) {
	var (
		raws []models.RawTrack
		err  error
	)
	if src.IsLiked() {
		raws, err = f.library.GetLikedSongs(ctx, f.limits.Liked)
	} else {
		raws, err = f.library.GetPlaylistTracks(ctx, src.PlaylistID, f.limits.Playlist)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", shared.ErrFetch, src.Label(), err)
	}
	return models.NewTracks(raws, src.Label()), nil
}

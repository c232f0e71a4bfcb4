// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
)

// CreateCall records one CreatePlaylist invocation.
type CreateCall struct {
	Title       string
	Description string
	Privacy     models.Privacy
}

// MockLibrary is a test double for [services.Library]. It is safe for concurrent use.
type MockLibrary struct {
	mu sync.Mutex

	Playlists []models.Playlist
	Tracks    map[string][]models.RawTrack
	Liked     []models.RawTrack
	CreatedID string

	PlaylistsErr error
	TrackErrs    map[string]error
	LikedErr     error
	CreateErr    error
	AddErr       error
	AddErrOnCall int // 1-based AddPlaylistItems call that returns AddErr; 0 fails every call when AddErr is set

	// Gate, when non-nil, blocks GetLibraryPlaylists until it is closed.
	Gate chan struct{}

	LibraryCalls int
	Limits       map[string]int
	Created      []CreateCall
	AddedTo      []string
	Added        [][]string
	Duplicates   []bool
}

func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		Tracks:    map[string][]models.RawTrack{},
		TrackErrs: map[string]error{},
		Limits:    map[string]int{},
		CreatedID: "PLNEW",
	}
}

func (m *MockLibrary) GetLibraryPlaylists(ctx context.Context, limit int) ([]models.Playlist, error) {
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.LibraryCalls++
	m.Limits["library"] = limit
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return append([]models.Playlist(nil), m.Playlists...), nil
}

func (m *MockLibrary) GetPlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.RawTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Limits["playlist"] = limit
	if err := m.TrackErrs[playlistID]; err != nil {
		return nil, err
	}
	tracks, ok := m.Tracks[playlistID]
	if !ok {
		return nil, fmt.Errorf("playlist %s not found", playlistID)
	}
	return tracks, nil
}

func (m *MockLibrary) GetLikedSongs(ctx context.Context, limit int) ([]models.RawTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Limits["liked"] = limit
	if m.LikedErr != nil {
		return nil, m.LikedErr
	}
	return m.Liked, nil
}

func (m *MockLibrary) CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, CreateCall{Title: title, Description: description, Privacy: privacy})
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.CreatedID, nil
}

func (m *MockLibrary) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string, duplicates bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.Added) + 1
	if m.AddErr != nil && (m.AddErrOnCall == 0 || m.AddErrOnCall == call) {
		return m.AddErr
	}
	m.AddedTo = append(m.AddedTo, playlistID)
	m.Added = append(m.Added, append([]string(nil), videoIDs...))
	m.Duplicates = append(m.Duplicates, duplicates)
	return nil
}

// AddedIDs flattens every committed batch in call order.
func (m *MockLibrary) AddedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, batch := range m.Added {
		ids = append(ids, batch...)
	}
	return ids
}

// Tracks builds raw tracks with the given video ids; an empty id yields a track without one.
func Tracks(ids ...string) []models.RawTrack {
	tracks := make([]models.RawTrack, len(ids))
	for i, id := range ids {
		title := id
		if title == "" {
			title = "untitled"
		}
		tracks[i] = models.RawTrack{VideoID: id, Title: "Track " + title}
	}
	return tracks
}

// IDs returns n distinct ids with the given prefix.
func IDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return ids
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

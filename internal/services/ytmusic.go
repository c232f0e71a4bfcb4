// YouTube Music [Library] implementation
//
// Communicates with the FastAPI proxy server wrapping the ytmusicapi Python library.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

const (
	defaultProxyURL = "http://localhost:8080"
	authHeader      = "X-Auth-File"
	statusSucceeded = "STATUS_SUCCEEDED"
)

// trackListing is the envelope the proxy uses for playlists and liked songs.
type trackListing struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	TrackCount int               `json:"trackCount"`
	Tracks     []models.RawTrack `json:"tracks"`
}

// YTMusicService implements [Library] via the ytmusicapi proxy.
type YTMusicService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewYTMusicService creates a client for the proxy at baseURL that authenticates each request with authFile.
func NewYTMusicService(baseURL, authFile string) *YTMusicService {
	if baseURL == "" {
		baseURL = defaultProxyURL
	}

	return &YTMusicService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authFile:   authFile,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (y *YTMusicService) WithHTTPClient(c *http.Client) *YTMusicService {
	y.httpClient = c
	return y
}

// Name returns the service name.
func (y *YTMusicService) Name() string {
	return "YouTube Music"
}

// AuthFile returns the browser credentials path sent with every request.
func (y *YTMusicService) AuthFile() string {
	return y.authFile
}

func (y *YTMusicService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set(authHeader, y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		sentinel := shared.ErrAPIRequest
		if resp.StatusCode == http.StatusNotFound {
			sentinel = shared.ErrPlaylistNotFound
		}

		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w (status %d): %s", sentinel, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && err != io.EOF {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func withLimit(endpoint string, limit int) string {
	if limit <= 0 {
		return endpoint
	}
	return endpoint + "?limit=" + strconv.Itoa(limit)
}

// Health checks that the proxy is reachable.
//
// Calls GET /health on the proxy.
func (y *YTMusicService) Health(ctx context.Context) error {
	return y.doRequest(ctx, http.MethodGet, "/health", nil, nil)
}

// GetLibraryPlaylists retrieves the user's library playlists.
//
// Calls GET /api/library/playlists?limit={limit} on the proxy.
func (y *YTMusicService) GetLibraryPlaylists(ctx context.Context, limit int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := y.doRequest(ctx, http.MethodGet, withLimit("/api/library/playlists", limit), nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// GetPlaylistTracks retrieves a playlist's tracks.
//
// Calls GET /api/playlists/{id}?limit={limit} on the proxy.
func (y *YTMusicService) GetPlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.RawTrack, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	var listing trackListing
	endpoint := withLimit("/api/playlists/"+url.PathEscape(playlistID), limit)
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &listing); err != nil {
		return nil, err
	}
	return listing.Tracks, nil
}

// GetLikedSongs retrieves the liked-songs collection.
//
// Calls GET /api/library/liked-songs?limit={limit} on the proxy.
func (y *YTMusicService) GetLikedSongs(ctx context.Context, limit int) ([]models.RawTrack, error) {
	var listing trackListing
	if err := y.doRequest(ctx, http.MethodGet, withLimit("/api/library/liked-songs", limit), nil, &listing); err != nil {
		return nil, err
	}
	return listing.Tracks, nil
}

// CreatePlaylist creates a playlist and returns its id.
//
// Calls POST /api/playlists on the proxy.
func (y *YTMusicService) CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (string, error) {
	req := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         title,
		Description:   description,
		PrivacyStatus: privacy.String(),
	}

	var resp struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", req, &resp); err != nil {
		return "", err
	}
	if resp.PlaylistID == "" {
		return "", fmt.Errorf("%w: create playlist returned no id", shared.ErrAPIRequest)
	}
	return resp.PlaylistID, nil
}

// AddPlaylistItems appends tracks to a playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YTMusicService) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string, duplicates bool) error {
	req := struct {
		VideoIDs   []string `json:"video_ids"`
		Duplicates bool     `json:"duplicates"`
	}{
		VideoIDs:   videoIDs,
		Duplicates: duplicates,
	}

	var resp struct {
		Status string `json:"status"`
	}
	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != statusSucceeded {
		return fmt.Errorf("%w: add items returned %s", shared.ErrAPIRequest, resp.Status)
	}
	return nil
}

var _ Library = (*YTMusicService)(nil)

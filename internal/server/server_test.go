package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/repositories"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
	testutil "github.com/Aanzil/youtube-music-playlist-merger/internal/testing"
)

// -- Helpers -----------------------------------------------------------------

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func setupRouter(t *testing.T, lib *testutil.MockLibrary, runs RunLister, health HealthFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var recorder tasks.RunRecorder
	if repo, ok := runs.(*repositories.RunRepository); ok {
		recorder = repositories.NewRunRecorder(repo)
	}
	engine := tasks.NewEngine(lib, tasks.EngineOpts{
		Logger:    quietLogger(),
		Publisher: tasks.PublisherOpts{Recorder: recorder},
	})
	return New(engine, runs, health, quietLogger()).Handler()
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func newLibrary() *testutil.MockLibrary {
	lib := testutil.NewMockLibrary()
	lib.Playlists = []models.Playlist{
		{ID: "PL1", Title: "Rock"},
		{ID: "PL2", Title: "Jazz"},
		{ID: "PLD", Title: "Merged"},
	}
	lib.Tracks = map[string][]models.RawTrack{
		"PL1": testutil.Tracks("a", "b", ""),
		"PL2": testutil.Tracks("b", "c"),
		"PLD": testutil.Tracks("c"),
	}
	return lib
}

func newRunRepository(t *testing.T) *repositories.RunRepository {
	t.Helper()
	db, err := shared.OpenHistory(":memory:", 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repositories.NewRunRepository(db)
}

// stubMerger returns fixed errors.
type stubMerger struct {
	err    error
	result *models.PublishResult
}

func (s *stubMerger) Playlists(context.Context) ([]models.Playlist, error) { return nil, s.err }

func (s *stubMerger) Preview(context.Context, tasks.PreviewRequest, chan<- tasks.ProgressUpdate) (*models.MergePlan, error) {
	return nil, s.err
}

func (s *stubMerger) Publish(context.Context, tasks.PublishRequest, chan<- tasks.ProgressUpdate) (*models.PublishResult, error) {
	return s.result, s.err
}

// -- Tests -------------------------------------------------------------------

// disconnectingLibrary cancels the request context once the first batch is committed.
type disconnectingLibrary struct {
	*testutil.MockLibrary
	disconnect context.CancelFunc
}

func (l *disconnectingLibrary) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string, duplicates bool) error {
	if err := l.MockLibrary.AddPlaylistItems(ctx, playlistID, videoIDs, duplicates); err != nil {
		return err
	}
	l.disconnect()
	return nil
}

func TestHealth(t *testing.T) {
	t.Run("without check", func(t *testing.T) {
		w := do(setupRouter(t, newLibrary(), nil, nil), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	})

	t.Run("proxy down", func(t *testing.T) {
		down := func(context.Context) error { return shared.ErrServiceUnavailable }
		w := do(setupRouter(t, newLibrary(), nil, down), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "degraded", decode[map[string]string](t, w)["status"])
	})
}

func TestListPlaylists(t *testing.T) {
	w := do(setupRouter(t, newLibrary(), nil, nil), http.MethodGet, "/api/playlists", nil)
	require.Equal(t, http.StatusOK, w.Code)

	playlists := decode[[]models.Playlist](t, w)
	require.Len(t, playlists, 3)
	assert.Equal(t, "PL1", playlists[0].ID)

	lib := newLibrary()
	lib.PlaylistsErr = errors.New("boom")
	w = do(setupRouter(t, lib, nil, nil), http.MethodGet, "/api/playlists", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPreview(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := setupRouter(t, newLibrary(), nil, nil)
		w := do(r, http.MethodPost, "/api/preview", PreviewRequest{
			Destination: "merged",
			Playlists:   []models.Playlist{{ID: "PL1", Title: "Rock"}, {ID: "PL2", Title: "Jazz"}, {ID: "PLD", Title: "Merged"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		preview := decode[models.Preview](t, w)
		assert.Equal(t, []string{"a", "b"}, preview.VideoIDs)
		assert.Len(t, preview.Skipped, 3)
		assert.Equal(t, "Yes", preview.Stats[6].Value)
	})

	t.Run("no sources", func(t *testing.T) {
		r := setupRouter(t, newLibrary(), nil, nil)
		w := do(r, http.MethodPost, "/api/preview", PreviewRequest{Destination: "Merged"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(decode[ErrorResponse](t, w).Message, "Failed to generate preview:"))
	})

	t.Run("malformed body", func(t *testing.T) {
		r := setupRouter(t, newLibrary(), nil, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("destination lookup failure", func(t *testing.T) {
		lib := newLibrary()
		lib.PlaylistsErr = errors.New("proxy down")
		w := do(setupRouter(t, lib, nil, nil), http.MethodPost, "/api/preview", PreviewRequest{
			Destination: "Merged", IncludeLiked: true,
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "upstream_error", decode[ErrorResponse](t, w).Error)
	})
}

func TestPublish(t *testing.T) {
	t.Run("creates destination and records run", func(t *testing.T) {
		lib := newLibrary()
		runs := newRunRepository(t)
		r := setupRouter(t, lib, runs, nil)

		w := do(r, http.MethodPost, "/api/publish", PublishRequest{
			Destination: "Road Trip",
			VideoIDs:    []string{"a", "b"},
			Privacy:     "unlisted",
			Playlists:   []models.Playlist{{ID: "PL1", Title: "Rock"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decode[models.PublishResult](t, w)
		assert.True(t, result.Success)
		assert.Equal(t, "https://music.youtube.com/playlist?list=PLNEW", result.PlaylistURL)
		require.Len(t, lib.Created, 1)
		assert.Equal(t, models.PrivacyUnlisted, lib.Created[0].Privacy)

		w = do(r, http.MethodGet, "/api/runs", nil)
		require.Equal(t, http.StatusOK, w.Code)
		views := decode[[]RunView](t, w)
		require.Len(t, views, 1)
		assert.Equal(t, models.RunCompleted, views[0].Status)
		assert.Equal(t, 2, views[0].TracksAdded)
		assert.Len(t, views[0].Sources, 1)
	})

	t.Run("empty ids", func(t *testing.T) {
		w := do(setupRouter(t, newLibrary(), nil, nil), http.MethodPost, "/api/publish", PublishRequest{Destination: "Merged"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No tracks to add to playlist", decode[ErrorResponse](t, w).Message)
	})

	t.Run("invalid privacy", func(t *testing.T) {
		w := do(setupRouter(t, newLibrary(), nil, nil), http.MethodPost, "/api/publish", PublishRequest{
			Destination: "Merged", VideoIDs: []string{"a"}, Privacy: "secret",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partial failure reports committed count", func(t *testing.T) {
		lib := newLibrary()
		lib.AddErr = errors.New("quota exceeded")
		lib.AddErrOnCall = 2

		w := do(setupRouter(t, lib, nil, nil), http.MethodPost, "/api/publish", PublishRequest{
			Destination: "Merged", VideoIDs: testutil.IDs("v", 60),
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)

		result := decode[models.PublishResult](t, w)
		assert.False(t, result.Success)
		assert.Equal(t, 50, result.Added)
		assert.True(t, strings.HasPrefix(result.Message, "Publishing failed:"))
		assert.Empty(t, result.PlaylistURL)
	})

	t.Run("client disconnect does not stop a started publish", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		lib := &disconnectingLibrary{MockLibrary: newLibrary(), disconnect: cancel}
		engine := tasks.NewEngine(lib, tasks.EngineOpts{Logger: quietLogger()})
		r := New(engine, nil, nil, quietLogger()).Handler()

		data, _ := json.Marshal(PublishRequest{Destination: "Road Trip", VideoIDs: testutil.IDs("v", 120)})
		req := httptest.NewRequest(http.MethodPost, "/api/publish", bytes.NewReader(data)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := decode[models.PublishResult](t, w)
		assert.True(t, result.Success)
		assert.Equal(t, 120, result.Added)
		assert.Equal(t, 3, result.Batches)
		assert.Len(t, lib.Added, 3)
		assert.Error(t, ctx.Err())
	})

	t.Run("busy", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := New(&stubMerger{err: shared.ErrBusy}, nil, nil, quietLogger()).Handler()
		w := do(r, http.MethodPost, "/api/publish", PublishRequest{Destination: "Merged", VideoIDs: []string{"a"}})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "busy", decode[ErrorResponse](t, w).Error)
	})
}

func TestListRuns(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		w := do(setupRouter(t, newLibrary(), nil, nil), http.MethodGet, "/api/runs", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("filters", func(t *testing.T) {
		runs := newRunRepository(t)
		for _, title := range []string{"Rock Mix", "Jazz Mix", "Rock Mix"} {
			require.NoError(t, runs.Create(&models.MergeRun{DestinationTitle: title, TracksTotal: 1}))
		}
		r := setupRouter(t, newLibrary(), runs, nil)

		w := do(r, http.MethodGet, "/api/runs?destination=rock%20mix", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]RunView](t, w), 2)

		w = do(r, http.MethodGet, "/api/runs?limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		views := decode[[]RunView](t, w)
		require.Len(t, views, 1)
		assert.Equal(t, 3, views[0].Sequence)

		w = do(r, http.MethodGet, "/api/runs?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.ErrBusy, http.StatusConflict},
		{shared.ErrNoSources, http.StatusBadRequest},
		{shared.ErrInvalidPrivacy, http.StatusBadRequest},
		{shared.ErrPublish, http.StatusBadGateway},
		{shared.ErrDestinationLookup, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

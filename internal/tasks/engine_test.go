package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	testutil "github.com/Aanzil/youtube-music-playlist-merger/internal/testing"
)

func newEngine(lib *testutil.MockLibrary) *Engine {
	return NewEngine(lib, EngineOpts{Logger: quietLogger()})
}

func TestSelectSources(t *testing.T) {
	selected := []models.Playlist{
		{ID: "P1", Title: "Rock"},
		{ID: "P2", Title: " My Merged Playlist "},
		{ID: "", Title: "Broken"},
		{ID: "P3", Title: "Jazz"},
	}

	got := SelectSources(selected, "my merged playlist")
	assert.Equal(t, []models.SourceDescriptor{
		{Title: "Rock", PlaylistID: "P1"},
		{Title: "Jazz", PlaylistID: "P3"},
	}, got)
}

func TestEngine_Playlists(t *testing.T) {
	lib := testutil.NewMockLibrary()
	lib.Playlists = []models.Playlist{{ID: "P1", Title: "Rock"}, {Title: "no id"}, {ID: "P2"}}

	playlists, err := newEngine(lib).Playlists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "Untitled", playlists[1].Title)
	assert.Equal(t, 10000, lib.Limits["library"])
}

func TestEngine_Validation(t *testing.T) {
	e := newEngine(testutil.NewMockLibrary())
	ctx := context.Background()

	_, err := e.Preview(ctx, PreviewRequest{DestinationTitle: "  "}, nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = e.Preview(ctx, PreviewRequest{DestinationTitle: "Dest"}, nil)
	assert.True(t, errors.Is(err, shared.ErrNoSources))

	result, err := e.Publish(ctx, PublishRequest{DestinationTitle: "Dest"}, nil)
	assert.True(t, errors.Is(err, shared.ErrNothingToAdd))
	assert.Nil(t, result)

	_, err = e.StartPublish(ctx, PublishRequest{DestinationTitle: "Dest"})
	assert.True(t, errors.Is(err, shared.ErrNothingToAdd))
}

func TestEngine_PreviewThenPublish(t *testing.T) {
	lib := testutil.NewMockLibrary()
	lib.Playlists = []models.Playlist{{ID: "PLX", Title: "X"}}
	lib.Tracks = map[string][]models.RawTrack{"PLX": testutil.Tracks("v1", "v2")}
	e := newEngine(lib)
	ctx := context.Background()

	plan, err := e.Preview(ctx, PreviewRequest{DestinationTitle: "Dest", Sources: SelectSources(lib.Playlists, "Dest")}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"v1", "v2"}, plan.VideoIDs())

	result, err := e.Publish(ctx, PublishRequest{VideoIDs: plan.VideoIDs(), DestinationTitle: "Dest"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, e.PlaylistURL("PLNEW"), result.PlaylistURL)
}

func TestEngine_BusyGuards(t *testing.T) {
	lib := testutil.NewMockLibrary()
	lib.Gate = make(chan struct{})
	lib.Tracks = map[string][]models.RawTrack{"PLX": testutil.Tracks("v1")}
	e := newEngine(lib)
	ctx := context.Background()
	req := PreviewRequest{DestinationTitle: "Dest", Sources: []models.SourceDescriptor{{Title: "X", PlaylistID: "PLX"}}}

	task, err := e.StartPreview(ctx, req)
	require.NoError(t, err)

	_, err = e.Preview(ctx, req, nil)
	assert.True(t, errors.Is(err, shared.ErrBusy), "second preview must be rejected while one is in flight")

	_, err = e.StartPreview(ctx, req)
	assert.True(t, errors.Is(err, shared.ErrBusy))

	// publishing has its own guard
	pubTask, err := e.StartPublish(ctx, PublishRequest{VideoIDs: []string{"v1"}, DestinationTitle: "Dest"})
	require.NoError(t, err)
	_, err = e.Publish(ctx, PublishRequest{VideoIDs: []string{"v1"}, DestinationTitle: "Dest"}, nil)
	assert.True(t, errors.Is(err, shared.ErrBusy))

	close(lib.Gate)

	plan, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Stats.ToAdd)

	result, err := pubTask.Wait()
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = e.Preview(ctx, req, nil)
	assert.NoError(t, err, "guard is released after the task completes")
}

func TestTask_DeliversUpdatesBeforeOutcome(t *testing.T) {
	lib := testutil.NewMockLibrary()
	e := newEngine(lib)

	task, err := e.StartPublish(context.Background(), PublishRequest{VideoIDs: testutil.IDs("v", 120), DestinationTitle: "Dest"})
	require.NoError(t, err)

	var percents []int
	var last ProgressUpdate
	for u := range task.Updates() {
		if u.IsProgress() {
			percents = append(percents, u.Percent)
		}
		last = u
	}

	result, err := task.Result()
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []int{41, 83, 100}, percents)
	assert.Equal(t, 100, last.Percent, "final progress event precedes the outcome")
}

func TestTask_Start(t *testing.T) {
	task := Start(context.Background(), func(ctx context.Context, progress chan<- ProgressUpdate) (int, error) {
		for i := 1; i <= 3; i++ {
			sendProgress(ctx, progress, statusUpdate(ProcessSource, i, 3, "step"))
		}
		return 42, errors.New("done with error")
	})

	var steps []int
	for u := range task.Updates() {
		steps = append(steps, u.Step)
	}
	got, err := task.Result()
	assert.Equal(t, []int{1, 2, 3}, steps)
	assert.Equal(t, 42, got)
	assert.EqualError(t, err, "done with error")
}

func TestPreviewMessages(t *testing.T) {
	assert.Equal(t, "Preview generated successfully", PreviewSuccessMessage)
	assert.Equal(t, "Failed to generate preview: boom", PreviewFailedMessage(errors.New("boom")))
}

package ui

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
	testutil "github.com/Aanzil/youtube-music-playlist-merger/internal/testing"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// drain runs the pending task command until the task reports its outcome.
func drain(m *Model) {
	for m.next != nil {
		m.Update(m.next())
	}
}

type harness struct {
	model  *Model
	lib    *testutil.MockLibrary
	saved  []shared.Settings
	opened []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	lib := testutil.NewMockLibrary()
	lib.Playlists = []models.Playlist{
		{ID: "PL1", Title: "Rock", Count: 2},
		{ID: "PL2", Title: "Jazz", Count: 2},
	}
	lib.Tracks = map[string][]models.RawTrack{
		"PL1": testutil.Tracks("a", "b"),
		"PL2": testutil.Tracks("b", "c"),
	}
	lib.Liked = testutil.Tracks("c", "d")

	logger := log.New(io.Discard)
	engine := tasks.NewEngine(lib, tasks.EngineOpts{Logger: logger})

	h := &harness{lib: lib}
	h.model = NewModel(context.Background(), engine, Options{
		Settings: shared.DefaultSettings(),
		SaveSettings: func(s shared.Settings) error {
			h.saved = append(h.saved, s)
			return nil
		},
		OpenURL: func(u string) error {
			h.opened = append(h.opened, u)
			return nil
		},
		Logger: logger,
	})

	h.model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.model.Update(h.model.Init()())
	require.Len(t, h.model.playlists, 2)
	return h
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.model.Update(keyPress(k))
	}
}

func TestModel_MergeFlow(t *testing.T) {
	h := newHarness(t)
	m := h.model

	h.press(" ", "down", " ")
	assert.Equal(t, []models.Playlist{h.lib.Playlists[0], h.lib.Playlists[1]}, m.selectedPlaylists())

	h.press("enter")
	require.Equal(t, DestinationView, m.view)
	assert.Equal(t, shared.DefaultDestinationTitle, m.destination.Value())

	m.destination.SetValue("Road Trip")
	h.press("tab")
	assert.Equal(t, models.PrivacyUnlisted, m.privacy)

	h.press("enter")
	require.Equal(t, PlanningView, m.view)
	drain(m)

	require.Equal(t, PreviewView, m.view)
	require.NotNil(t, m.preview)
	assert.Equal(t, []string{"a", "b", "c"}, m.preview.VideoIDs)
	assert.Equal(t, 1, m.plan.Stats.Duplicates)
	assert.Contains(t, m.View(), "Merge into 'Road Trip'")

	require.Len(t, h.saved, 1)
	assert.Equal(t, "Road Trip", h.saved[0].LastDestTitle)
	assert.Equal(t, "UNLISTED", h.saved[0].LastPrivacy)
	assert.False(t, h.saved[0].IncludeLiked)

	h.press("enter")
	require.Equal(t, ConfirmView, m.view)
	assert.Contains(t, m.View(), "create a new unlisted playlist")

	h.press("y")
	require.Equal(t, PublishingView, m.view)
	drain(m)

	require.Equal(t, ResultView, m.view)
	require.NotNil(t, m.result)
	assert.True(t, m.result.Success)
	assert.Equal(t, 100, m.percent)
	assert.Equal(t, []string{"a", "b", "c"}, h.lib.AddedIDs())
	assert.Equal(t, models.PrivacyUnlisted, h.lib.Created[0].Privacy)
	assert.Contains(t, m.View(), "Successfully added 3 tracks!")

	h.press("o")
	assert.Equal(t, []string{"https://music.youtube.com/playlist?list=PLNEW"}, h.opened)

	h.press("r")
	assert.Equal(t, SelectView, m.view)
	assert.Nil(t, m.result)
}

func TestModel_LikedSongs(t *testing.T) {
	h := newHarness(t)
	m := h.model

	h.press("l", "enter")
	require.Equal(t, DestinationView, m.view)

	h.press("enter")
	drain(m)
	require.Equal(t, PreviewView, m.view)
	assert.Equal(t, []string{"c", "d"}, m.preview.VideoIDs)
	assert.True(t, h.saved[0].IncludeLiked)
}

func TestModel_Validation(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		h := newHarness(t)
		h.press("enter")
		assert.Equal(t, SelectView, h.model.view)
		assert.True(t, errors.Is(h.model.err, shared.ErrNoSources))
	})

	t.Run("empty destination", func(t *testing.T) {
		h := newHarness(t)
		h.press(" ", "enter")
		h.model.destination.SetValue("   ")
		h.press("enter")
		assert.Equal(t, DestinationView, h.model.view)
		assert.Contains(t, h.model.err.Error(), "Failed to generate preview:")
		assert.Empty(t, h.saved)
	})

	t.Run("nothing to add", func(t *testing.T) {
		h := newHarness(t)
		h.lib.Tracks["PL1"] = testutil.Tracks("")
		h.press(" ", "enter", "enter")
		drain(h.model)
		require.Equal(t, PreviewView, h.model.view)

		h.press("enter")
		assert.Equal(t, PreviewView, h.model.view)
		assert.EqualError(t, h.model.err, "No tracks to add to playlist")
	})

	t.Run("destination lookup failure", func(t *testing.T) {
		h := newHarness(t)
		h.press(" ", "enter")
		h.lib.PlaylistsErr = errors.New("proxy down")
		h.press("enter")
		drain(h.model)
		assert.Equal(t, DestinationView, h.model.view)
		assert.Contains(t, h.model.err.Error(), "proxy down")
	})
}

func TestModel_PublishFailure(t *testing.T) {
	h := newHarness(t)
	h.lib.AddErr = errors.New("quota exceeded")

	h.press(" ", "enter", "enter")
	drain(h.model)
	h.press("enter", "y")
	drain(h.model)

	require.Equal(t, ResultView, h.model.view)
	assert.False(t, h.model.result.Success)
	assert.True(t, errors.Is(h.model.err, shared.ErrPublish))
	assert.Contains(t, h.model.View(), "Publishing failed:")

	h.press("o")
	assert.Empty(t, h.opened)
}

func TestModel_LoadFailure(t *testing.T) {
	lib := testutil.NewMockLibrary()
	lib.PlaylistsErr = errors.New("proxy down")
	engine := tasks.NewEngine(lib, tasks.EngineOpts{Logger: log.New(io.Discard)})

	m := NewModel(context.Background(), engine, Options{Logger: log.New(io.Discard)})
	m.Update(m.Init()())
	m.Update(keyPress(" "))

	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "Press q to quit")

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestNextPrivacy(t *testing.T) {
	assert.Equal(t, models.PrivacyUnlisted, nextPrivacy(models.PrivacyPrivate))
	assert.Equal(t, models.PrivacyPublic, nextPrivacy(models.PrivacyUnlisted))
	assert.Equal(t, models.PrivacyPrivate, nextPrivacy(models.PrivacyPublic))
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/formatter"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SelectView ViewState = iota
	DestinationView
	PlanningView
	PreviewView
	ConfirmView
	PublishingView
	ResultView
)

// Engine is the part of [tasks.Engine] the TUI drives.
type Engine interface {
	Playlists(ctx context.Context) ([]models.Playlist, error)
	StartPreview(ctx context.Context, req tasks.PreviewRequest) (*tasks.Task[*models.MergePlan], error)
	StartPublish(ctx context.Context, req tasks.PublishRequest) (*tasks.Task[*models.PublishResult], error)
}

// Options carries the TUI's optional collaborators.
type Options struct {
	Settings     shared.Settings
	SaveSettings func(shared.Settings) error
	OpenURL      func(string) error
	Description  string
	Logger       *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	engine Engine
	opts   Options
	logger *log.Logger

	view   ViewState
	width  int
	height int

	playlistList list.Model
	playlists    []models.Playlist
	selected     map[string]bool
	includeLiked bool

	destination textinput.Model
	privacy     models.Privacy

	sources []models.SourceDescriptor
	plan    *models.MergePlan
	preview *models.Preview
	tracks  viewport.Model

	next    tea.Cmd
	status  string
	percent int
	bar     progress.Model
	spinner spinner.Model

	result *models.PublishResult
	err    error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model over engine, seeded from the remembered settings.
func NewModel(ctx context.Context, engine Engine, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenURL
	}

	input := textinput.New()
	input.Placeholder = shared.DefaultDestinationTitle
	input.CharLimit = 150
	input.SetValue(opts.Settings.LastDestTitle)

	privacy, err := models.ParsePrivacy(opts.Settings.LastPrivacy)
	if err != nil {
		privacy = models.PrivacyPrivate
	}

	return &Model{
		ctx:          ctx,
		engine:       engine,
		opts:         opts,
		logger:       shared.WithLogger(opts.Logger, "component", "tui"),
		view:         SelectView,
		selected:     map[string]bool{},
		includeLiked: opts.Settings.IncludeLiked,
		destination:  input,
		privacy:      privacy,
		tracks:       viewport.New(0, 0),
		bar:          progress.New(progress.WithDefaultGradient()),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by fetching the library playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SelectView:
			return m.handleSelectKeys(msg)
		case DestinationView:
			return m.handleDestinationKeys(msg)
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		default:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case spinner.TickMsg:
		if m.view != PlanningView && m.view != PublishingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.setPlaylists(data.playlists)
		return m, nil

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.status = update.Message
		if update.IsProgress() {
			m.percent = update.Percent
		}
		return m, m.next

	case MsgPreviewComplete:
		data := msg.data.(previewComplete)
		m.next = nil
		if data.err != nil {
			m.err = errors.New(tasks.PreviewFailedMessage(data.err))
			m.view = DestinationView
			return m, m.destination.Focus()
		}
		m.plan = data.plan
		m.preview = models.NewPreview(data.plan)
		m.tracks.SetContent(formatter.PreviewText(m.preview))
		m.tracks.GotoTop()
		m.status = tasks.PreviewSuccessMessage
		m.view = PreviewView
		return m, nil

	case MsgPublishComplete:
		data := msg.data.(publishComplete)
		m.next = nil
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	if m.playlists != nil {
		m.playlistList.SetSize(width-4, height-8)
	}
	m.tracks.Width = width - 4
	m.tracks.Height = max(height-10, 3)
	m.bar.Width = min(max(width-10, 10), 80)
}

func (m *Model) setPlaylists(playlists []models.Playlist) {
	m.playlists = playlists
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl, selected: m.selected[pl.ID]}
	}
	m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.playlistList.Title = "YouTube Music Playlists"
	m.playlistList.SetSize(m.width-4, m.height-8)
	m.playlistList.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.toggle, m.keys.liked}
	}
}

func (m *Model) handleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlists == nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		return m, m.toggleSelected()
	case key.Matches(msg, m.keys.liked):
		m.includeLiked = !m.includeLiked
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if len(m.selectedPlaylists()) == 0 && !m.includeLiked {
			m.err = fmt.Errorf("%w: select at least one playlist or include liked songs", shared.ErrNoSources)
			return m, nil
		}
		m.err = nil
		m.view = DestinationView
		return m, m.destination.Focus()
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// toggleSelected flips the cursor item. Items are matched by id because the cursor index is
// relative to the filtered view.
func (m *Model) toggleSelected() tea.Cmd {
	item, ok := m.playlistList.SelectedItem().(playlistItem)
	if !ok {
		return nil
	}

	id := item.playlist.ID
	m.selected[id] = !m.selected[id]
	for i, it := range m.playlistList.Items() {
		if pi, ok := it.(playlistItem); ok && pi.playlist.ID == id {
			pi.selected = m.selected[id]
			return m.playlistList.SetItem(i, pi)
		}
	}
	return nil
}

// selectedPlaylists returns the marked playlists in library order.
func (m *Model) selectedPlaylists() []models.Playlist {
	var out []models.Playlist
	for _, pl := range m.playlists {
		if m.selected[pl.ID] {
			out = append(out, pl)
		}
	}
	return out
}

func (m *Model) handleDestinationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.destination.Blur()
		m.err = nil
		m.view = SelectView
		return m, nil
	case key.Matches(msg, m.keys.privacy):
		m.privacy = nextPrivacy(m.privacy)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.startPreview()
	}

	var cmd tea.Cmd
	m.destination, cmd = m.destination.Update(msg)
	return m, cmd
}

func nextPrivacy(p models.Privacy) models.Privacy {
	i := slices.Index(models.PrivacyChoices, p)
	return models.PrivacyChoices[(i+1)%len(models.PrivacyChoices)]
}

func (m *Model) startPreview() tea.Cmd {
	title := strings.TrimSpace(m.destination.Value())
	m.sources = tasks.SelectSources(m.selectedPlaylists(), title)

	task, err := m.engine.StartPreview(m.ctx, tasks.PreviewRequest{
		DestinationTitle: title,
		Sources:          m.sources,
		IncludeLiked:     m.includeLiked,
	})
	if err != nil {
		m.err = errors.New(tasks.PreviewFailedMessage(err))
		return nil
	}

	m.saveSettings(title)
	m.destination.Blur()
	m.err = nil
	m.status = ""
	m.view = PlanningView
	m.next = waitForTask(task, previewCompleteMsg)
	return tea.Batch(m.next, m.spinner.Tick)
}

func (m *Model) saveSettings(title string) {
	if m.opts.SaveSettings == nil {
		return
	}
	s := m.opts.Settings
	s.LastDestTitle = title
	s.LastPrivacy = m.privacy.String()
	s.IncludeLiked = m.includeLiked
	if err := m.opts.SaveSettings(s); err != nil {
		m.logger.Warn("failed to save settings", "err", err)
		return
	}
	m.opts.Settings = s
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DestinationView
		return m, m.destination.Focus()
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.yes):
		if len(m.preview.VideoIDs) == 0 {
			m.err = errors.New(tasks.NothingToAddMessage)
			return m, nil
		}
		m.err = nil
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = PreviewView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		return m, m.startPublish()
	}
	return m, nil
}

func (m *Model) startPublish() tea.Cmd {
	sources := m.sources
	if m.includeLiked {
		sources = append(slices.Clone(sources), models.LikedSongs())
	}

	task, err := m.engine.StartPublish(m.ctx, tasks.PublishRequest{
		VideoIDs:         m.preview.VideoIDs,
		DestinationTitle: m.preview.Destination,
		Privacy:          m.privacy,
		Description:      m.opts.Description,
		Sources:          sources,
	})
	if err != nil {
		m.err = err
		return nil
	}

	m.err = nil
	m.status = ""
	m.percent = 0
	m.view = PublishingView
	m.next = waitForTask(task, publishCompleteMsg)
	return tea.Batch(m.next, m.spinner.Tick)
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.open):
		if m.result != nil && m.result.PlaylistURL != "" {
			if err := m.opts.OpenURL(m.result.PlaylistURL); err != nil {
				m.logger.Warn("failed to open browser", "err", err)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.restart):
		m.view = SelectView
		m.plan = nil
		m.preview = nil
		m.result = nil
		m.err = nil
		m.status = ""
		m.percent = 0
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SelectView:
		if m.playlists != nil {
			m.playlistList, cmd = m.playlistList.Update(msg)
		}
	case DestinationView:
		m.destination, cmd = m.destination.Update(msg)
	case PreviewView:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.engine.Playlists(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case SelectView:
		body = m.renderSelect()
	case DestinationView:
		body = m.renderDestination()
	case PlanningView:
		body = m.renderPlanning()
	case PreviewView:
		body = m.renderPreview()
	case ConfirmView:
		body = m.renderConfirm()
	case PublishingView:
		body = m.renderPublishing()
	case ResultView:
		return m.renderResult()
	}

	if m.err != nil {
		body += "\n\n" + styles.err.Render(m.err.Error())
	}
	return body
}

func (m *Model) renderSelect() string {
	if m.playlists == nil {
		if m.err != nil {
			return styles.help.Render("Press q to quit")
		}
		return m.spinner.View() + " Loading playlists..."
	}

	liked := "[ ] Include liked songs"
	if m.includeLiked {
		liked = styles.selected.Render("[x] Include liked songs")
	}
	summary := styles.help.Render(fmt.Sprintf("%d selected", len(m.selectedPlaylists())))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.liked, m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s  %s\n\n%s", m.playlistList.View(), liked, summary, helpView)
}

func (m *Model) renderDestination() string {
	title := styles.title.Render("Destination playlist")
	privacy := make([]string, len(models.PrivacyChoices))
	for i, p := range models.PrivacyChoices {
		if p == m.privacy {
			privacy[i] = styles.selected.Render(p.String())
		} else {
			privacy[i] = styles.help.Render(p.String())
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.privacy, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\nPrivacy: %s\n\n%s", title, m.destination.View(), strings.Join(privacy, " / "), helpView)
}

func (m *Model) renderPlanning() string {
	title := styles.title.Render("Generating preview")
	return fmt.Sprintf("%s\n%s %s", title, m.spinner.View(), m.status)
}

func (m *Model) renderPreview() string {
	title := styles.title.Render(fmt.Sprintf("Merge into '%s'", m.preview.Destination))

	var stats strings.Builder
	for _, s := range m.preview.Stats {
		stats.WriteString(styles.label.Render(s.Label) + s.Value + "\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, stats.String(), m.tracks.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Publish to '%s'?", m.preview.Destination))

	action := "add to the existing playlist"
	if !m.plan.Stats.DestinationExists {
		action = fmt.Sprintf("create a new %s playlist", strings.ToLower(m.privacy.String()))
	}
	info := fmt.Sprintf("%d tracks will be added. This will %s.", len(m.preview.VideoIDs), action)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderPublishing() string {
	title := styles.title.Render("Publishing")
	return fmt.Sprintf("%s\n%s\n\n%s %s", title, m.bar.ViewAs(float64(m.percent)/100), m.spinner.View(), m.status)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.result == nil {
		msg := "No result available"
		if m.err != nil {
			msg = m.err.Error()
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	if !m.result.Success {
		info := fmt.Sprintf("\n%d tracks were added before the failure.", m.result.Added)
		return fmt.Sprintf("%s%s\n\n%s", styles.err.Render(m.result.Message), info, helpView)
	}

	title := styles.ok.Render("✓ " + m.result.Message)
	info := fmt.Sprintf("\n%s", m.result.PlaylistURL)
	helpView = m.help.ShortHelpView([]key.Binding{m.keys.open, m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

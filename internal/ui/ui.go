package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/genresort/internal/services"
	"github.com/desertthunder/genresort/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BucketListView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.Engine
	width  int
	height int

	bucketList list.Model
	buckets    []tasks.BucketSummary
	bucketMap  map[string][]services.Track

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	results      []services.PlaylistResult
	err          error

	help help.Model
	keys keyMap
}

type bucketsLoadedMsg struct {
	buckets   []tasks.BucketSummary
	bucketMap map[string][]services.Track
	err       error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	results []services.PlaylistResult
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine) *Model {
	return &Model{
		ctx:    ctx,
		view:   BucketListView,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by building genre buckets from the library,
// reusing cached stage results where available.
func (m *Model) Init() tea.Cmd {
	return m.loadBuckets()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.bucketList.Width() == 0 {
			m.bucketList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BucketListView:
			return m.handleBucketListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case bucketsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.buckets = msg.buckets
		m.bucketMap = msg.bucketMap
		items := make([]list.Item, len(msg.buckets))
		for i, bucket := range msg.buckets {
			items[i] = bucketItem{bucket: bucket}
		}
		m.bucketList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.bucketList.Title = "Genre Buckets"
		m.bucketList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.results = msg.results
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case BucketListView:
		return m.renderBucketList()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleBucketListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		index := m.bucketList.Index()
		if item, ok := m.bucketList.SelectedItem().(bucketItem); ok {
			item.selected = !item.selected
			return m, m.bucketList.SetItem(index, item)
		}
	case "a":
		var cmds []tea.Cmd
		for i, raw := range m.bucketList.Items() {
			if item, ok := raw.(bucketItem); ok {
				item.selected = true
				cmds = append(cmds, m.bucketList.SetItem(i, item))
			}
		}
		return m, tea.Batch(cmds...)
	case "enter":
		if len(m.selectedGenres()) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.bucketList, cmd = m.bucketList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = BucketListView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = BucketListView
		m.results = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == BucketListView {
		m.bucketList, cmd = m.bucketList.Update(msg)
	}
	return m, cmd
}

// selectedGenres returns the genres marked in the bucket list, in list order.
func (m *Model) selectedGenres() []string {
	var genres []string
	for _, raw := range m.bucketList.Items() {
		if item, ok := raw.(bucketItem); ok && item.selected {
			genres = append(genres, item.bucket.Genre)
		}
	}
	return genres
}

func (m *Model) loadBuckets() tea.Cmd {
	return func() tea.Msg {
		tracks := m.engine.CachedTracks()
		if tracks == nil {
			fetched, err := m.engine.FetchSongs(m.ctx, nil)
			if err != nil {
				return bucketsLoadedMsg{err: err}
			}
			tracks = fetched
		}

		genres := m.engine.CachedGenres()
		if genres == nil {
			fetched, err := m.engine.FetchGenres(m.ctx, nil, tracks)
			if err != nil {
				return bucketsLoadedMsg{err: err}
			}
			genres = fetched
		}

		bucketMap := tasks.BuildBuckets(tracks, genres)
		return bucketsLoadedMsg{
			buckets:   tasks.SortedBuckets(bucketMap),
			bucketMap: bucketMap,
		}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	selected := m.selectedGenres()

	go func() {
		results, err := m.engine.CreatePlaylists(m.ctx, m.progressChan, selected, m.bucketMap)
		m.results = results
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{results: m.results, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{results: m.results, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderBucketList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.bucketList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	selected := m.selectedGenres()
	title := styles.title.Render(fmt.Sprintf("Create %d playlists?", len(selected)))

	var info string
	for _, bucket := range m.buckets {
		for _, genre := range selected {
			if bucket.Genre == genre {
				info += fmt.Sprintf("\n  %s (%d tracks)", bucket.Genre, bucket.Count())
			}
		}
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Creating Playlists")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSongs:
		phase = "Fetching saved songs..."
	case tasks.FetchGenres:
		phase = fmt.Sprintf("Looking up genres (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylists:
		phase = fmt.Sprintf("Creating playlists (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	var header string
	if m.err != nil {
		header = styles.err.Render(fmt.Sprintf("Run failed: %v", m.err))
	} else {
		header = styles.ok.Render("✓ Playlists Created!")
	}

	var info string
	for _, result := range m.results {
		info += fmt.Sprintf("\n  %s: %d tracks\n  %s", result.Genre, result.TrackCount, styles.help.Render(result.Link))
	}
	if len(m.results) == 0 {
		info = "\n" + styles.warn.Render("No playlists were created.")
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", header, info, helpView)
}

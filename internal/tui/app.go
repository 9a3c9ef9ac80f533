package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anigo/internal/browse"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/components"
)

// ViewMode is the screen currently shown
type ViewMode int

const (
	ViewBrowse ViewMode = iota
	ViewDetail
	ViewWatchLater
)

// Layout proportions
const (
	ListColumnPercent = 58
	MinColumnWidth    = 30

	// Vertical layout: header line + footer line
	ChromeHeight = 2
)

// Error contexts routed to a specific component
const (
	ctxDetail = "loading details"
	ctxGenres = "loading genres"
)

// Options configures the Model
type Options struct {
	WatchLaterPageSize int
	Logger             *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready    bool
	Mode     ViewMode
	prevMode ViewMode // where the detail view returns to
	ShowHelp bool

	// Services
	Browser    Browser
	Catalog    Catalog
	WatchLater WatchLater
	Opener     Opener
	states     <-chan browse.State
	logger     *slog.Logger

	// UI Components
	BrowseList  *components.ListColumn
	Inspector   components.Inspector
	LaterPanel  components.WatchLaterPanel
	SearchInput components.InputModal
	SortModal   components.SortModal
	FilterModal components.FilterModal

	// Data
	Browse        browse.State
	Genres        []domain.Genre
	genresLoading bool

	// Dimensions
	Width  int
	Height int

	// Status
	SpinnerFrame int
	StatusMsg    string
	StatusIsErr  bool
	statusSeq    int
}

// NewModel creates a new application model. states delivers controller
// snapshots, usually from a ChannelObserver registered with browser.
func NewModel(browser Browser, catalog Catalog, list WatchLater, opener Opener, states <-chan browse.State, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	browseList := components.NewListColumn("Browse")
	browseList.SetFocused(true)
	browseList.SetLoading(true)

	laterPanel := components.NewWatchLaterPanel(opts.WatchLaterPageSize)
	laterPanel.SetFocused(true)

	m := Model{
		Browser:     browser,
		Catalog:     catalog,
		WatchLater:  list,
		Opener:      opener,
		states:      states,
		logger:      logger,
		BrowseList:  browseList,
		Inspector:   components.NewInspector(),
		LaterPanel:  laterPanel,
		SearchInput: components.NewInputModal("title, e.g. frieren"),
		SortModal:   components.NewSortModal(),
		FilterModal: components.NewFilterModal(),
		Browse:      browser.State(),

		genresLoading: true, // Init loads them
	}
	m.refreshWatchLater()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	browser := m.Browser
	return tea.Batch(
		WaitForStateCmd(m.states),
		func() tea.Msg {
			browser.Refresh()
			return nil
		},
		LoadGenresCmd(m.Catalog),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.BrowseList.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case StateMsg:
		cmd := m.applyState(msg.State)
		return m, tea.Batch(cmd, WaitForStateCmd(m.states))

	case DetailLoadedMsg:
		if msg.Detail.ID != m.Inspector.ID() {
			return m, nil // user moved on
		}
		m.Inspector.SetDetail(msg.Detail)
		if msg.Refresh {
			return m, m.setStatus("Details reloaded", false)
		}
		return m, nil

	case GenresLoadedMsg:
		m.Genres = msg.Genres
		m.genresLoading = false
		m.FilterModal.SetGenres(msg.Genres)
		return m, nil

	case WatchLaterChangedMsg:
		m.refreshWatchLater()
		if msg.Saved {
			return m, m.setStatus("Saved "+msg.Title+" for later", false)
		}
		return m, m.setStatus("Removed "+msg.Title+" from watch later", false)

	case WeightChangedMsg:
		m.refreshWatchLater()
		return m, nil

	case URLOpenedMsg:
		return m, m.setStatus("Opened in browser", false)

	case ErrMsg:
		switch msg.Context {
		case ctxDetail:
			m.Inspector.SetError(msg.Err)
		case ctxGenres:
			m.genresLoading = false
		}
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// applyState takes a controller snapshot, ignoring out-of-order ones
func (m *Model) applyState(s browse.State) tea.Cmd {
	prev := m.Browse
	if s.Rev <= prev.Rev {
		return nil
	}
	m.Browse = s

	// A completed fetch for new inputs starts at the top of the list
	if !s.Loading && s.Err == nil && prev.Loading {
		m.BrowseList.Reset()
	}
	m.BrowseList.SetLoading(s.Loading)
	m.rebuildBrowseRows()

	if s.Err != nil && !s.Loading && (prev.Err == nil || prev.Loading) {
		return m.setStatus(describeFetchError(s.Err), true)
	}
	return nil
}

// describeFetchError turns a fetch failure into a notice
func describeFetchError(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "The catalog is busy, try again in a moment"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The catalog sent an unexpected response"
	default:
		return fmt.Sprintf("Could not load anime: %v", err)
	}
}

// setStatus shows a transient notice
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, NoticeTimeout)
}

// refreshWatchLater reloads the personal list into every view that shows it
func (m *Model) refreshWatchLater() {
	m.LaterPanel.SetEntries(m.WatchLater.SortedView(m.LaterPanel.SortKeys()))
	m.Inspector.SetSaved(m.WatchLater.Contains(m.Inspector.ID()))
	m.rebuildBrowseRows()
}

// selectedRecord returns the record under the browse cursor
func (m Model) selectedRecord() (domain.Anime, bool) {
	i := m.BrowseList.SelectedIndex()
	if i < 0 || i >= len(m.Browse.Records) {
		return domain.Anime{}, false
	}
	return m.Browse.Records[i], true
}

// openDetail shows the detail view for a and starts loading it
func (m *Model) openDetail(a domain.Anime) tea.Cmd {
	if m.Mode != ViewDetail {
		m.prevMode = m.Mode
	}
	m.Mode = ViewDetail
	m.Inspector.Open(a)
	m.Inspector.SetSaved(m.WatchLater.Contains(a.ID))
	m.updateLayout()
	return LoadDetailCmd(m.Catalog, a.ID, false)
}

// closeDetail returns to the view the detail was opened from
func (m *Model) closeDetail() {
	m.Mode = m.prevMode
	m.updateLayout()
}

// showFilters opens the filter modal, loading genres on first use
func (m *Model) showFilters() tea.Cmd {
	m.FilterModal.Show(m.Browse.Criteria, m.Genres)
	m.FilterModal.SetSize(m.Width, m.Height)
	if len(m.Genres) == 0 && !m.genresLoading {
		m.genresLoading = true
		return LoadGenresCmd(m.Catalog)
	}
	return nil
}

// genreName returns the display name of a genre id
func (m Model) genreName(id int) string {
	if name := m.Catalog.GenreName(id); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

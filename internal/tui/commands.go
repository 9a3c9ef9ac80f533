package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anigo/internal/browse"
	"github.com/mmcdole/anigo/internal/domain"
)

const (
	requestTimeout = 30 * time.Second

	// NoticeTimeout is how long a status notice stays on screen
	NoticeTimeout = 3 * time.Second
)

// Catalog is the read side the TUI needs beyond list browsing
type Catalog interface {
	Detail(ctx context.Context, id int) (*domain.AnimeDetail, error)
	RefreshDetail(ctx context.Context, id int) (*domain.AnimeDetail, error)
	Genres(ctx context.Context) ([]domain.Genre, error)
	GenreName(id int) string
}

// WatchLater is the personal list the TUI edits
type WatchLater interface {
	Toggle(e domain.SavedEntry) (bool, error)
	Remove(id int) error
	SetWeight(id, weight int) error
	Contains(id int) bool
	Get(id int) (domain.SavedEntry, bool)
	Len() int
	SortedView(primary, secondary domain.SortKey) []domain.SavedEntry
}

// Browser is the controller the browse view drives
type Browser interface {
	State() browse.State
	SetSearch(text string)
	SetFilter(patch domain.FilterPatch) error
	ClearFilters()
	SetSort(field domain.OrderBy, dir domain.SortDirection) error
	SetPage(n int) bool
	NextPage() bool
	PrevPage() bool
	Refresh()
}

// Opener launches URLs in the user's browser
type Opener interface {
	Open(target string) error
}

// WaitForStateCmd blocks until the controller publishes a snapshot
func WaitForStateCmd(states <-chan browse.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return StateMsg{State: s}
	}
}

// LoadDetailCmd loads the detail record for id
func LoadDetailCmd(svc Catalog, id int, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		load := svc.Detail
		if refresh {
			load = svc.RefreshDetail
		}
		detail, err := load(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: ctxDetail}
		}
		return DetailLoadedMsg{Detail: detail, Refresh: refresh}
	}
}

// LoadGenresCmd loads the genre taxonomy for the filter modal
func LoadGenresCmd(svc Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		genres, err := svc.Genres(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: ctxGenres}
		}
		return GenresLoadedMsg{Genres: genres}
	}
}

// ToggleWatchLaterCmd saves or removes a record from the personal list
func ToggleWatchLaterCmd(list WatchLater, a domain.Anime) tea.Cmd {
	return func() tea.Msg {
		saved, err := list.Toggle(domain.NewSavedEntry(a, domain.DefaultWeight, time.Time{}))
		if err != nil {
			return ErrMsg{Err: err, Context: "updating watch later"}
		}
		return WatchLaterChangedMsg{ID: a.ID, Title: a.Title, Saved: saved}
	}
}

// RemoveWatchLaterCmd removes a saved entry
func RemoveWatchLaterCmd(list WatchLater, e domain.SavedEntry) tea.Cmd {
	return func() tea.Msg {
		if err := list.Remove(e.ID); err != nil {
			return ErrMsg{Err: err, Context: "updating watch later"}
		}
		return WatchLaterChangedMsg{ID: e.ID, Title: e.Title, Saved: false}
	}
}

// AdjustWeightCmd changes a saved entry's priority by delta
func AdjustWeightCmd(list WatchLater, e domain.SavedEntry, delta int) tea.Cmd {
	return func() tea.Msg {
		if err := list.SetWeight(e.ID, e.Weight+delta); err != nil {
			return ErrMsg{Err: err, Context: "updating watch later"}
		}
		return WeightChangedMsg{ID: e.ID}
	}
}

// OpenURLCmd opens target in the browser
func OpenURLCmd(opener Opener, target string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(target); err != nil {
			return ErrMsg{Err: err, Context: "opening browser"}
		}
		return URLOpenedMsg{URL: target}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

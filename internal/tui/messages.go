package tui

import (
	"github.com/mmcdole/anigo/internal/browse"
	"github.com/mmcdole/anigo/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StateMsg carries a browse controller snapshot
type StateMsg struct {
	State browse.State
}

// DetailLoadedMsg signals that a detail record has been loaded
type DetailLoadedMsg struct {
	Detail  *domain.AnimeDetail
	Refresh bool
}

// GenresLoadedMsg signals that the genre taxonomy has been loaded
type GenresLoadedMsg struct {
	Genres []domain.Genre
}

// WatchLaterChangedMsg signals that the personal list was modified
type WatchLaterChangedMsg struct {
	ID    int
	Title string
	Saved bool
}

// WeightChangedMsg signals that a saved entry's priority changed
type WeightChangedMsg struct {
	ID int
}

// URLOpenedMsg signals that the browser was launched
type URLOpenedMsg struct {
	URL string
}

// StatusMsg is for displaying transient status messages
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message. Seq identifies the notice it
// was scheduled for, so a newer notice is not cleared early.
type ClearStatusMsg struct {
	Seq int
}

// TickMsg is for periodic updates (spinner animation)
type TickMsg struct{}

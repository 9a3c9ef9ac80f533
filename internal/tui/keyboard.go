package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anigo/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Typing into the watch later filter swallows global keys
	if m.Mode == ViewWatchLater && m.LaterPanel.IsFilterTyping() {
		var cmd tea.Cmd
		m.LaterPanel, cmd = m.LaterPanel.Update(msg)
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Browse):
		m.Mode = ViewBrowse
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.WatchLater):
		m.Mode = ViewWatchLater
		m.refreshWatchLater()
		m.updateLayout()
		return m, nil
	}

	switch m.Mode {
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewWatchLater:
		return m.handleWatchLaterKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

// routeToModal sends the key to the visible modal, if any
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case m.SearchInput.IsVisible():
		before := m.SearchInput.Value()
		var cmd tea.Cmd
		m.SearchInput, cmd, _ = m.SearchInput.Update(msg)

		if msg.Type == tea.KeyEsc {
			// esc abandons the search
			if m.Browse.Criteria.Search != "" || before != "" {
				m.Browser.SetSearch("")
			}
			return true, m, cmd
		}
		if after := m.SearchInput.Value(); after != before {
			m.Browser.SetSearch(after)
		}
		return true, m, cmd

	case m.SortModal.IsVisible():
		_, sel := m.SortModal.HandleKey(msg.String())
		if sel != nil {
			if err := m.Browser.SetSort(sel.Field, sel.Direction); err != nil {
				return true, m, m.setStatus(err.Error(), true)
			}
		}
		return true, m, nil

	case m.FilterModal.IsVisible():
		_, patch := m.FilterModal.HandleKeyMsg(msg)
		if patch != nil {
			if err := m.Browser.SetFilter(*patch); err != nil {
				return true, m, m.setStatus(err.Error(), true)
			}
		}
		return true, m, nil
	}
	return false, m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Search):
		m.SearchInput.Show("Search anime", m.Browse.Criteria.Search)
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.showFilters()

	case key.Matches(msg, Keys.ClearFilter):
		m.Browser.ClearFilters()
		return m, m.setStatus("Filters cleared", false)

	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(m.Browse.Criteria.OrderBy, m.Browse.Criteria.Sort)
		return m, nil

	case key.Matches(msg, Keys.NextPage):
		if !m.Browser.NextPage() {
			return m, m.setStatus("Already on the last page", false)
		}
		return m, nil

	case key.Matches(msg, Keys.PrevPage):
		if !m.Browser.PrevPage() {
			return m, m.setStatus("Already on the first page", false)
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.Browser.Refresh()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if a, ok := m.selectedRecord(); ok {
			return m, m.openDetail(a)
		}
		return m, nil

	case key.Matches(msg, Keys.Save):
		if a, ok := m.selectedRecord(); ok {
			return m, ToggleWatchLaterCmd(m.WatchLater, a)
		}
		return m, nil

	case key.Matches(msg, Keys.Open):
		if a, ok := m.selectedRecord(); ok && a.URL != "" {
			return m, OpenURLCmd(m.Opener, a.URL)
		}
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Browse.Criteria.Search != "" {
			m.Browser.SetSearch("")
		}
		return m, nil
	}

	m.BrowseList.Update(msg)
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a, ok := m.Inspector.Anime()
	if !ok {
		m.closeDetail()
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Back):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, Keys.Save):
		return m, ToggleWatchLaterCmd(m.WatchLater, a)

	case key.Matches(msg, Keys.Open):
		if a.URL == "" {
			return m, m.setStatus("No catalog page for this title", false)
		}
		return m, OpenURLCmd(m.Opener, a.URL)

	case key.Matches(msg, Keys.Trailer):
		d := m.Inspector.Detail()
		if d == nil || d.TrailerURL == "" {
			return m, m.setStatus("No trailer available", false)
		}
		return m, OpenURLCmd(m.Opener, d.TrailerURL)

	case key.Matches(msg, Keys.Refresh):
		m.Inspector.SetLoading(true)
		return m, LoadDetailCmd(m.Catalog, a.ID, true)
	}

	var cmd tea.Cmd
	m.Inspector, cmd = m.Inspector.Update(msg)
	return m, cmd
}

func (m Model) handleWatchLaterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e, ok := m.LaterPanel.Selected()

	switch {
	case key.Matches(msg, Keys.Enter) && msg.String() == "enter":
		if ok {
			return m, m.openDetail(savedAsAnime(e))
		}
		return m, nil

	case key.Matches(msg, Keys.Save), msg.String() == "x":
		if ok {
			return m, RemoveWatchLaterCmd(m.WatchLater, e)
		}
		return m, nil

	case key.Matches(msg, Keys.WeightUp):
		if ok {
			return m, AdjustWeightCmd(m.WatchLater, e, 1)
		}
		return m, nil

	case key.Matches(msg, Keys.WeightDown):
		if ok && e.Weight > 1 {
			return m, AdjustWeightCmd(m.WatchLater, e, -1)
		}
		return m, nil

	case key.Matches(msg, Keys.SortList):
		m.LaterPanel.ToggleOrder()
		m.refreshWatchLater()
		return m, nil
	}

	var cmd tea.Cmd
	m.LaterPanel, cmd = m.LaterPanel.Update(msg)
	return m, cmd
}

// savedAsAnime rebuilds the summary a detail view opens with
func savedAsAnime(e domain.SavedEntry) domain.Anime {
	return domain.Anime{ID: e.ID, Title: e.Title, ImageURL: e.ImageURL}
}

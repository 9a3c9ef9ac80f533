package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/styles"
	"github.com/mmcdole/anigo/internal/watchlater"
)

// WatchLaterPanel lists the personal list one page at a time with an
// optional fuzzy title filter
type WatchLaterPanel struct {
	list      *ListColumn
	pages     paginator.Model
	filter    textinput.Model
	filtering bool

	view    []domain.SavedEntry
	matches []watchlater.Match
	primary domain.SortKey
}

// NewWatchLaterPanel creates a panel showing pageSize entries per page
func NewWatchLaterPanel(pageSize int) WatchLaterPanel {
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = max(pageSize, 1)
	p.ActiveDot = styles.AccentStyle.Render("•")
	p.InactiveDot = styles.DimStyle.Render("•")
	p.KeyMap = paginator.KeyMap{
		PrevPage: key.NewBinding(key.WithKeys("[", "pgup", "left")),
		NextPage: key.NewBinding(key.WithKeys("]", "pgdown", "right")),
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	list := NewListColumn("Watch Later")
	list.SetEmptyText("Nothing saved yet. Press space on any title to save it.")

	return WatchLaterPanel{
		list:    list,
		pages:   p,
		filter:  ti,
		primary: domain.SortByWeight,
	}
}

// SortKeys returns the primary and secondary order of the view
func (w WatchLaterPanel) SortKeys() (domain.SortKey, domain.SortKey) {
	if w.primary == domain.SortBySavedAt {
		return domain.SortBySavedAt, domain.SortByWeight
	}
	return domain.SortByWeight, domain.SortBySavedAt
}

// ToggleOrder switches between weight-first and newest-first
func (w *WatchLaterPanel) ToggleOrder() {
	if w.primary == domain.SortByWeight {
		w.primary = domain.SortBySavedAt
	} else {
		w.primary = domain.SortByWeight
	}
}

// SetEntries replaces the sorted view, keeping page and filter
func (w *WatchLaterPanel) SetEntries(view []domain.SavedEntry) {
	w.view = view
	w.refilter()
}

// IsFilterTyping reports whether keystrokes go to the filter input
func (w WatchLaterPanel) IsFilterTyping() bool {
	return w.filtering && w.filter.Focused()
}

// Update handles filter input, paging and cursor movement
func (w WatchLaterPanel) Update(msg tea.Msg) (WatchLaterPanel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if w.IsFilterTyping() && isKey {
		switch keyMsg.String() {
		case "esc":
			w.clearFilter()
			return w, nil
		case "enter":
			// Accept filter, blur input to allow navigation
			w.filter.Blur()
			return w, nil
		}
		var cmd tea.Cmd
		w.filter, cmd = w.filter.Update(msg)
		w.pages.Page = 0
		w.list.Reset()
		w.refilter()
		return w, cmd
	}

	if isKey {
		switch keyMsg.String() {
		case "/":
			w.filtering = true
			w.filter.Focus()
			w.resize()
			return w, textinput.Blink
		case "esc":
			if w.filtering {
				w.clearFilter()
				return w, nil
			}
		}
	}

	page := w.pages.Page
	var cmd tea.Cmd
	w.pages, cmd = w.pages.Update(msg)
	if w.pages.Page != page {
		w.list.Reset()
		w.renderRows()
	}
	w.list.Update(msg)
	return w, cmd
}

// Selected returns the entry under the cursor
func (w WatchLaterPanel) Selected() (domain.SavedEntry, bool) {
	start, end := w.pages.GetSliceBounds(len(w.matches))
	i := start + w.list.SelectedIndex()
	if i < start || i >= end {
		return domain.SavedEntry{}, false
	}
	return w.matches[i].Entry, true
}

// Page returns the current page, 1-based
func (w WatchLaterPanel) Page() int {
	return w.pages.Page + 1
}

func (w *WatchLaterPanel) SetSize(width, height int) {
	w.list.SetSize(width, height)
	w.renderRows() // title width follows the column width
}

func (w *WatchLaterPanel) SetFocused(focused bool) {
	w.list.SetFocused(focused)
}

func (w *WatchLaterPanel) clearFilter() {
	w.filtering = false
	w.filter.Blur()
	w.filter.SetValue("")
	w.pages.Page = 0
	w.list.Reset()
	w.refilter()
	w.resize()
}

// resize recomputes the footer, which depends on filter state
func (w *WatchLaterPanel) resize() {
	w.list.SetFooter(w.footer())
}

func (w *WatchLaterPanel) refilter() {
	w.matches = watchlater.Filter(w.view, w.filter.Value())
	w.pages.SetTotalPages(len(w.matches))
	if len(w.matches) == 0 {
		// SetTotalPages ignores an empty list
		w.pages.TotalPages = 1
	}
	if last := max(w.pages.TotalPages-1, 0); w.pages.Page > last {
		w.pages.Page = last
	}

	primary, _ := w.SortKeys()
	order := "priority"
	if primary == domain.SortBySavedAt {
		order = "newest"
	}
	w.list.SetTitle(fmt.Sprintf("Watch Later (%d) · by %s", len(w.view), order))
	if w.filtering && len(w.matches) == 0 {
		w.list.SetEmptyText("No matches")
	} else {
		w.list.SetEmptyText("Nothing saved yet. Press space on any title to save it.")
	}
	w.renderRows()
}

func (w *WatchLaterPanel) renderRows() {
	start, end := w.pages.GetSliceBounds(len(w.matches))
	titleWidth := max(w.list.Width()-BorderWidth-24, 10)

	rows := make([]Row, 0, end-start)
	for _, m := range w.matches[start:end] {
		rows = append(rows, entryRow(m, titleWidth))
	}
	w.list.SetRows(rows)
	w.list.SetFooter(w.footer())
}

func (w WatchLaterPanel) footer() string {
	var parts []string
	if w.pages.TotalPages > 1 {
		parts = append(parts, w.pages.View()+styles.DimStyle.Render(fmt.Sprintf(" %d/%d", w.pages.Page+1, w.pages.TotalPages)))
	}
	if w.filtering {
		parts = append(parts, w.filter.View())
	}
	return strings.Join(parts, "  ")
}

// entryRow renders weight, title with highlighted matches, and save date
func entryRow(m watchlater.Match, titleWidth int) Row {
	weight := styles.Sky
	gray := styles.DimGray
	row := Row{{Text: fmt.Sprintf("%s x%-2d ", styles.SavedChar, m.Entry.Weight), Foreground: &weight}}

	title := styles.Truncate(m.Entry.Title, titleWidth)
	row = append(row, highlightParts(title, m.MatchedIndexes)...)

	if pad := titleWidth - lipgloss.Width(title); pad > 0 {
		row = append(row, styles.RowPart{Text: strings.Repeat(" ", pad)})
	}
	row = append(row, styles.RowPart{Text: "  saved " + m.Entry.SavedAt.Local().Format("Jan 2, 2006"), Foreground: &gray})
	return row
}

// highlightParts splits text into runs, coloring matched byte offsets
func highlightParts(text string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: text}}
	}

	accent := styles.Sky
	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		p := styles.RowPart{Text: run.String()}
		if runMatched {
			p.Foreground = &accent
		}
		parts = append(parts, p)
		run.Reset()
	}

	for i, r := range text {
		hit := slices.Contains(matched, i)
		if hit != runMatched {
			flush()
			runMatched = hit
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}

func (w WatchLaterPanel) View() string {
	return w.list.View()
}

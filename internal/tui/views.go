package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/components"
	"github.com/mmcdole/anigo/internal/tui/styles"
)

// View renders the model
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight

	var content string
	switch m.Mode {
	case ViewDetail:
		content = m.Inspector.View()
	case ViewWatchLater:
		content = m.LaterPanel.View()
	default:
		content = m.renderBrowse(contentHeight)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	// Overlay the active modal
	switch {
	case m.SortModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.SortModal.View())
	case m.FilterModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.FilterModal.View())
	case m.SearchInput.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.SearchInput.View())
	}

	return view
}

// renderBrowse renders [List | Preview], or just the list when narrow
func (m Model) renderBrowse(height int) string {
	_, previewWidth := m.browseColumns()
	if previewWidth == 0 {
		return m.BrowseList.View()
	}

	preview := components.NewInspector()
	preview.SetSize(previewWidth, height)
	if a, ok := m.selectedRecord(); ok {
		preview.Preview(a)
		preview.SetSaved(m.WatchLater.Contains(a.ID))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.BrowseList.View(), preview.View())
}

// rebuildBrowseRows renders the current records into the list column
func (m *Model) rebuildBrowseRows() {
	s := m.Browse
	listWidth, _ := m.browseColumns()
	titleWidth := max(listWidth-components.BorderWidth-26, 10)

	rows := make([]components.Row, 0, len(s.Records))
	for _, a := range s.Records {
		rows = append(rows, m.animeRow(a, titleWidth))
	}
	m.BrowseList.SetRows(rows)

	title := "Browse"
	if s.Criteria.Search != "" {
		title = fmt.Sprintf("Search: %q", s.Criteria.Search)
	}
	m.BrowseList.SetTitle(title)

	switch {
	case len(s.Records) == 0 && s.Err != nil:
		m.BrowseList.SetEmptyText("Could not reach the catalog. Press r to retry.")
	case s.Seq == 0:
		m.BrowseList.SetEmptyText("")
	default:
		m.BrowseList.SetEmptyText("No anime match these filters")
	}
	m.BrowseList.SetFooter(m.pageLine())
}

// animeRow renders saved mark, title, type, year and stars
func (m Model) animeRow(a domain.Anime, titleWidth int) components.Row {
	gold := styles.Gold
	gray := styles.DimGray

	mark := styles.RowPart{Text: "  "}
	if m.WatchLater.Contains(a.ID) {
		mark = styles.RowPart{Text: styles.SavedChar + " ", Foreground: &gold}
	}

	year := ""
	if a.Year > 0 {
		year = fmt.Sprintf("%d", a.Year)
	}
	score := "  -  "
	if a.Score > 0 {
		score = fmt.Sprintf("%5.2f", a.Score)
	}

	return components.Row{
		mark,
		{Text: styles.Pad(a.Title, titleWidth)},
		{Text: fmt.Sprintf("  %-8s %-4s ", styles.Truncate(a.Type, 8), year), Foreground: &gray},
		{Text: strings.Repeat("★", a.Stars()) + strings.Repeat("☆", 5-a.Stars()), Foreground: &gold},
		{Text: " " + score},
	}
}

// pageLine renders "Page 3 of 17 · 412 results" plus the fetch state
func (m Model) pageLine() string {
	s := m.Browse
	var parts []string

	switch {
	case s.Page.Total > 0:
		parts = append(parts, fmt.Sprintf("Page %d of %d", s.Page.Current, s.Page.Total))
	case s.Seq > 0:
		parts = append(parts, fmt.Sprintf("Page %d", s.Page.Current))
	}
	if s.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d results", s.Total))
	}
	line := styles.DimStyle.Render(strings.Join(parts, " · "))
	if s.Page.Total > 1 {
		line += "  " + pageStrip(s.Page)
	}

	if s.Loading && len(s.Records) > 0 {
		line += " " + RenderSpinner(m.SpinnerFrame)
	}
	if s.Err != nil && !s.Loading {
		line += " " + styles.ErrorStyle.Render("· showing last results")
	}
	return line
}

const pageStripSize = 5

// pageStrip renders the page numbers around the current one, e.g. "1 2 [3] 4 5"
func pageStrip(p domain.PageState) string {
	nums := p.Window(pageStripSize)
	parts := make([]string, len(nums))
	for i, n := range nums {
		if n == p.Current {
			parts[i] = styles.AccentStyle.Render(fmt.Sprintf("[%d]", n))
		} else {
			parts[i] = styles.DimStyle.Render(fmt.Sprintf("%d", n))
		}
	}
	return strings.Join(parts, " ")
}

// renderHeader renders the tab line and the active criteria
func (m Model) renderHeader() string {
	tab := func(label string, active bool) string {
		if active {
			return styles.BadgeStyle.Render(label)
		}
		return styles.DimBadgeStyle.Render(label)
	}

	browsing := m.Mode == ViewBrowse || (m.Mode == ViewDetail && m.prevMode == ViewBrowse)
	later := fmt.Sprintf("2 Watch Later (%d)", m.WatchLater.Len())
	left := tab("1 Browse", browsing) + " " + tab(later, !browsing)

	right := m.criteriaSummary()
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = styles.Truncate(right, max(m.Width-lipgloss.Width(left)-1, 0))
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// criteriaSummary describes search, filters and sort in one line
func (m Model) criteriaSummary() string {
	c := m.Browse.Criteria
	var parts []string

	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("%q", c.Search))
	}
	if c.Type != "" {
		parts = append(parts, c.Type.Label())
	}
	if c.Rating != "" {
		parts = append(parts, c.Rating.Label())
	}
	if c.Status != "" {
		parts = append(parts, c.Status.Label())
	}
	for _, id := range c.Genres {
		parts = append(parts, "+"+m.genreName(id))
	}
	for _, id := range c.ExcludedGenres {
		parts = append(parts, "-"+m.genreName(id))
	}
	parts = append(parts, c.OrderBy.Label()+" "+c.Sort.Arrow())

	return styles.DimStyle.Render(strings.Join(parts, " · "))
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner or status notice
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.Browse.Loading && m.Mode == ViewBrowse:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	}

	// Center section: context-specific hints
	hint := func(k, desc string) string {
		return styles.HelpKeyStyle.Render(k) + styles.HelpDescStyle.Render(" "+desc)
	}
	var hints []string
	switch m.Mode {
	case ViewBrowse:
		hints = []string{hint("/", "Search"), hint("f", "Filter"), hint("s", "Sort"), hint("[ ]", "Page"), hint("space", "Save")}
	case ViewDetail:
		hints = []string{hint("esc", "Back"), hint("space", "Save"), hint("o", "Open")}
	case ViewWatchLater:
		hints = []string{hint("/", "Filter"), hint("+/-", "Priority"), hint("x", "Remove"), hint("s", "Order")}
	}
	center := strings.Join(hints, "  ")

	right := styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSE                          DETAILS
  j/k        Up/down               esc    Back
  enter      Details               space  Save / remove
  /          Search                o      Open catalog page
  f / F      Filters / clear       t      Play trailer
  s          Sort                  r      Reload
  [ / ]      Previous/next page
  r          Refresh             WATCH LATER
  space      Save for later        /      Filter titles
  o          Open catalog page     + / -  Raise / lower priority
                                   x      Remove
VIEWS                              s      Order by priority/date
  1          Browse                [ / ]  Previous/next page
  2          Watch later
  q          Quit                  ?      This help

Press ? or esc to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := components.SpinnerFrames
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

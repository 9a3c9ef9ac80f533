package components

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/styles"
)

// genreMark is the tri-state of a genre row
type genreMark int

const (
	genreAny genreMark = iota
	genreInclude
	genreExclude
)

// rows above the genre list
const (
	rowType = iota
	rowRating
	rowStatus
	enumRows
)

// FilterModal edits the type, rating, status and genre filters.
// Changes are staged until the user applies them.
type FilterModal struct {
	visible bool
	cursor  int
	offset  int

	typ    domain.AnimeType
	rating domain.Rating
	status domain.Status

	genres []domain.Genre
	marks  map[int]genreMark

	width  int
	height int
}

// NewFilterModal creates a new filter modal
func NewFilterModal() FilterModal {
	return FilterModal{marks: make(map[int]genreMark)}
}

// Show displays the modal staged with the current criteria
func (m *FilterModal) Show(c domain.FilterCriteria, genres []domain.Genre) {
	m.visible = true
	m.cursor = 0
	m.offset = 0
	m.typ = c.Type
	m.rating = c.Rating
	m.status = c.Status
	m.genres = genres

	m.marks = make(map[int]genreMark)
	for _, id := range c.Genres {
		m.marks[id] = genreInclude
	}
	for _, id := range c.ExcludedGenres {
		m.marks[id] = genreExclude
	}
}

// SetGenres supplies the genre list once it has loaded
func (m *FilterModal) SetGenres(genres []domain.Genre) {
	m.genres = genres
}

// Hide dismisses the modal
func (m *FilterModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m FilterModal) IsVisible() bool {
	return m.visible
}

// SetSize sets the space available to the modal
func (m *FilterModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m FilterModal) rows() int {
	return enumRows + len(m.genres)
}

// visibleGenres is how many genre rows fit
func (m FilterModal) visibleGenres() int {
	// border, padding, title, enum rows, blanks and help
	n := m.height - 14
	if n < 5 {
		n = 5
	}
	return n
}

// HandleKeyMsg processes a key message, returns (handled, patch).
// A non-nil patch means the user applied the staged filters.
func (m *FilterModal) HandleKeyMsg(msg tea.KeyMsg) (handled bool, patch *domain.FilterPatch) {
	if !m.visible {
		return false, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right", " ":
		m.cycle(1)
	case "h", "left":
		m.cycle(-1)
	case "x":
		m.reset()
	case "enter":
		m.visible = false
		p := m.patch()
		return true, &p
	case "esc", "f", "q":
		m.visible = false
		return true, nil
	}

	m.scroll()
	return true, nil // consume all keys when visible
}

// cycle steps the value under the cursor
func (m *FilterModal) cycle(step int) {
	switch m.cursor {
	case rowType:
		m.typ = cycleEnum(domain.AnimeTypes(), m.typ, step)
	case rowRating:
		m.rating = cycleEnum(domain.Ratings(), m.rating, step)
	case rowStatus:
		m.status = cycleEnum(domain.Statuses(), m.status, step)
	default:
		id := m.genres[m.cursor-enumRows].ID
		m.marks[id] = genreMark((int(m.marks[id]) + step + 3) % 3)
	}
}

func (m *FilterModal) reset() {
	m.typ, m.rating, m.status = "", "", ""
	m.marks = make(map[int]genreMark)
}

// scroll keeps the cursor's genre row inside the window
func (m *FilterModal) scroll() {
	if m.cursor < enumRows {
		m.offset = 0
		return
	}
	g := m.cursor - enumRows
	visible := m.visibleGenres()
	if g < m.offset {
		m.offset = g
	}
	if g >= m.offset+visible {
		m.offset = g - visible + 1
	}
}

// patch builds a FilterPatch that sets every field the modal edits
func (m FilterModal) patch() domain.FilterPatch {
	typ, rating, status := m.typ, m.rating, m.status
	var include, exclude []int
	for _, g := range m.genres {
		switch m.marks[g.ID] {
		case genreInclude:
			include = append(include, g.ID)
		case genreExclude:
			exclude = append(exclude, g.ID)
		}
	}
	return domain.FilterPatch{
		Type:           &typ,
		Rating:         &rating,
		Status:         &status,
		Genres:         &include,
		ExcludedGenres: &exclude,
	}
}

// cycleEnum steps through values with the zero value ("Any") in front
func cycleEnum[T ~string](values []T, cur T, step int) T {
	var zero T
	opts := append([]T{zero}, values...)
	i := max(slices.Index(opts, cur), 0)
	return opts[(i+step+len(opts))%len(opts)]
}

// View renders the filter modal
func (m FilterModal) View() string {
	if !m.visible {
		return ""
	}

	modalWidth := 44
	if m.width > 0 && m.width < 60 {
		modalWidth = max(m.width-10, 24)
	}
	rowWidth := modalWidth - 4

	row := func(i int, text string, fg lipgloss.Color) string {
		style := lipgloss.NewStyle().Foreground(fg)
		if i == m.cursor {
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		}
		return style.Render(styles.Pad(text, rowWidth))
	}
	enumRow := func(i int, label, value string, set bool) string {
		fg := styles.LightGray
		if set {
			fg = styles.Sky
		}
		return row(i, fmt.Sprintf("%-8s ‹ %s ›", label, value), fg)
	}

	lines := []string{
		styles.ModalTitleStyle.Render("Filters"),
		enumRow(rowType, "Type", m.typ.Label(), m.typ != ""),
		enumRow(rowRating, "Rating", m.rating.Label(), m.rating != ""),
		enumRow(rowStatus, "Status", m.status.Label(), m.status != ""),
		"",
	}

	if len(m.genres) == 0 {
		lines = append(lines, styles.DimStyle.Render("Loading genres..."))
	} else {
		lines = append(lines, styles.SubtitleStyle.Render("Genres"))
		end := min(m.offset+m.visibleGenres(), len(m.genres))
		if m.offset > 0 {
			lines = append(lines, styles.DimStyle.Render("↑ more"))
		}
		for gi := m.offset; gi < end; gi++ {
			g := m.genres[gi]
			box, fg := "[ ]", styles.LightGray
			switch m.marks[g.ID] {
			case genreInclude:
				box, fg = "[+]", styles.Green
			case genreExclude:
				box, fg = "[-]", styles.Red
			}
			lines = append(lines, row(enumRows+gi, box+" "+g.Name, fg))
		}
		if end < len(m.genres) {
			lines = append(lines, styles.DimStyle.Render("↓ more"))
		}
	}

	lines = append(lines, "", styles.DimStyle.Render("←/→ Change  Space: Cycle  x: Reset  Enter: Apply"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Sky).
		Background(styles.SlateDark).
		Padding(1, 2).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))
}

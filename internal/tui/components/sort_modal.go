package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/styles"
)

const sortModalWidth = 20

// DefaultDirection returns the default sort direction for a field
func DefaultDirection(field domain.OrderBy) domain.SortDirection {
	switch field {
	case domain.OrderTitle, domain.OrderRank, domain.OrderPopularity:
		return domain.SortAsc // A-Z, #1 first
	default:
		return domain.SortDesc
	}
}

// SortSelection represents the user's sort choice
type SortSelection struct {
	Field     domain.OrderBy
	Direction domain.SortDirection
}

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible     bool
	options     []domain.OrderBy
	cursor      int
	activeField domain.OrderBy
	activeDir   domain.SortDirection
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal with the current sort state
func (m *SortModal) Show(activeField domain.OrderBy, activeDir domain.SortDirection) {
	m.visible = true
	m.options = domain.OrderFields()
	m.activeField = activeField
	m.activeDir = activeDir
	m.cursor = 0
	for i, opt := range m.options {
		if opt == activeField {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *SortSelection) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		chosen := m.options[m.cursor]
		dir := DefaultDirection(chosen)
		if chosen == m.activeField {
			dir = m.activeDir.Toggle()
		}
		m.visible = false
		return true, &SortSelection{Field: chosen, Direction: dir}
	case "esc", "s":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		isActive := opt == m.activeField

		prefix := "  "
		suffix := ""
		if isActive {
			prefix = "✓ "
			suffix = " " + m.activeDir.Arrow()
		}
		text := styles.Pad(prefix+opt.Label()+suffix, sortModalWidth)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case isActive:
			style = lipgloss.NewStyle().Foreground(styles.Sky)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Sky).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}

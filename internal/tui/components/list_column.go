package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anigo/internal/tui/styles"
)

// Spinner frames for loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// Row is one pre-built list row
type Row []styles.RowPart

// ListColumn is a bordered, scrollable list of rows with a cursor
type ListColumn struct {
	rows []Row

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	footer    string // optional line under the rows
	emptyText string

	loading      bool
	spinnerFrame int
}

// NewListColumn creates a new list column with the given title
func NewListColumn(title string) *ListColumn {
	return &ListColumn{
		title:     title,
		emptyText: "No items",
	}
}

// Update moves the cursor on navigation keys
func (c *ListColumn) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused {
		return nil
	}

	count := len(c.rows)
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, ListColumnKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListColumnKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListColumnKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, ListColumnKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListColumnKeys.HalfDown):
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
	case key.Matches(keyMsg, ListColumnKeys.HalfUp):
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
	}
	c.ensureVisible()
	return nil
}

// View renders the column with its border
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent())
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible() // Scroll to show selected item now that we know the size
}

func (c *ListColumn) Width() int  { return c.width }
func (c *ListColumn) Height() int { return c.height }

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }

func (c *ListColumn) Title() string         { return c.title }
func (c *ListColumn) SetTitle(title string) { c.title = title }

// SetFooter sets the line drawn under the rows; empty removes it
func (c *ListColumn) SetFooter(footer string) {
	c.footer = footer
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetEmptyText(text string) { c.emptyText = text }

func (c *ListColumn) SetLoading(loading bool) { c.loading = loading }

// SetSpinnerFrame updates the spinner animation frame
func (c *ListColumn) SetSpinnerFrame(frame int) { c.spinnerFrame = frame }

// SetRows replaces the rows, keeping the cursor in range
func (c *ListColumn) SetRows(rows []Row) {
	c.rows = rows
	c.SetSelectedIndex(c.cursor)
}

// Reset moves the cursor back to the first row
func (c *ListColumn) Reset() {
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) ItemCount() int { return len(c.rows) }

func (c *ListColumn) SelectedIndex() int { return c.cursor }

func (c *ListColumn) SetSelectedIndex(idx int) {
	last := len(c.rows) - 1
	if last < 0 {
		c.cursor = 0
		c.offset = 0
		return
	}
	c.cursor = max(0, min(idx, last))
	c.ensureVisible()
}

func (c *ListColumn) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.footer != "" {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	withFooter := func(s string) string {
		if c.footer == "" {
			return s
		}
		return s + "\n" + c.footer
	}

	// Keep showing the old rows while a refetch is in flight
	if len(c.rows) == 0 {
		msg := styles.DimStyle.Render(c.emptyText)
		if c.loading {
			spinner := SpinnerFrames[c.spinnerFrame%len(SpinnerFrames)]
			msg = styles.DimStyle.Render(spinner + " Loading...")
		}
		return withFooter(titleLine + "\n \n" + msg + "\n ")
	}

	end := min(c.offset+c.maxVisible, len(c.rows))
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, styles.RenderListRow(c.rows[i], i == c.cursor && c.focused, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(c.rows) {
		footer = styles.DimStyle.Render("↓ more")
	}

	return withFooter(titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer)
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays the detail page of one anime.
// Until the full record arrives it shows the list record it was opened from.
type Inspector struct {
	summary *domain.Anime
	detail  *domain.AnimeDetail
	saved   bool
	loading bool
	preview bool
	err     error

	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// Open shows a record while its detail loads
func (i *Inspector) Open(a domain.Anime) {
	i.summary = &a
	i.detail = nil
	i.err = nil
	i.loading = true
	i.preview = false
	i.offset = 0 // Reset scroll on item change
}

// Preview shows a list record without loading its detail
func (i *Inspector) Preview(a domain.Anime) {
	i.summary = &a
	i.detail = nil
	i.err = nil
	i.loading = false
	i.preview = true
	i.offset = 0
}

// SetDetail shows the loaded detail record
func (i *Inspector) SetDetail(d *domain.AnimeDetail) {
	if d == nil {
		return
	}
	i.detail = d
	i.summary = &d.Anime
	i.loading = false
	i.err = nil
}

// SetError records a failed detail load; the summary stays visible
func (i *Inspector) SetError(err error) {
	i.loading = false
	i.err = err
}

// SetSaved sets whether the record is on the watch later list
func (i *Inspector) SetSaved(saved bool) {
	i.saved = saved
}

// SetLoading marks a refetch in flight
func (i *Inspector) SetLoading(loading bool) {
	i.loading = loading
}

// IsLoading reports whether a detail load is in flight
func (i Inspector) IsLoading() bool {
	return i.loading
}

// ID returns the displayed record id, or 0
func (i Inspector) ID() int {
	if i.summary == nil {
		return 0
	}
	return i.summary.ID
}

// Anime returns the displayed record
func (i Inspector) Anime() (domain.Anime, bool) {
	if i.summary == nil {
		return domain.Anime{}, false
	}
	return *i.summary, true
}

// Detail returns the loaded detail record, or nil
func (i Inspector) Detail() *domain.AnimeDetail {
	return i.detail
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve space for border, scroll indicators, title and blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.summary != nil
}

// Update scrolls the body
func (i Inspector) Update(msg tea.Msg) (Inspector, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, InspectorKeys.ScrollDown):
			if i.offset < i.maxOffset() {
				i.offset++
			}
		case key.Matches(keyMsg, InspectorKeys.ScrollUp):
			if i.offset > 0 {
				i.offset--
			}
		}
	}
	return i, nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.ActiveBorder
	if i.preview {
		style = styles.InactiveBorder
	}

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := max(i.width-3, 10)
	content := i.render(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Details", contentWidth))
	if i.loading {
		titleLine += styles.DimStyle.Render(" · loading")
	}

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	// Clamp body scroll offset
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(i.offset, maxOffset)

	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, content.header)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if content.footer != "" {
		parts = append(parts, content.footer)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

// maxOffset is the furthest the body can scroll
func (i Inspector) maxOffset() int {
	content := i.render(max(i.width-3, 10))
	fixed := len(splitLines(content.header)) + len(splitLines(content.footer))
	return max(len(splitLines(content.body))-max(i.maxVisible-fixed, 1), 0)
}

func (i Inspector) render(width int) inspectorContent {
	if i.summary == nil {
		return inspectorContent{body: styles.DimStyle.Render("No item selected")}
	}
	return inspectorContent{
		header: i.renderHeader(width),
		body:   i.renderBody(width),
		footer: i.renderFooter(width),
	}
}

func (i Inspector) renderHeader(width int) string {
	a := i.summary
	var b strings.Builder

	title := a.Title
	if i.saved {
		title = styles.SavedChar + " " + title
	}
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(title, width)))
	b.WriteString("\n")

	if d := i.detail; d != nil {
		var alt []string
		if d.TitleEnglish != "" && d.TitleEnglish != a.Title {
			alt = append(alt, d.TitleEnglish)
		}
		if d.TitleJapanese != "" {
			alt = append(alt, d.TitleJapanese)
		}
		if len(alt) > 0 {
			b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(strings.Join(alt, " / "), width)))
			b.WriteString("\n")
		}
	}

	// Meta line: Type · Season · Status
	var meta []string
	for _, s := range []string{a.Type, a.SeasonLabel(), a.Status} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))
		b.WriteString("\n")
	}

	// Score
	if a.Score > 0 {
		var scoreStyle lipgloss.Style
		switch {
		case a.Score >= 7:
			scoreStyle = lipgloss.NewStyle().Foreground(styles.Green)
		case a.Score >= 5:
			scoreStyle = lipgloss.NewStyle().Foreground(styles.Gold)
		default:
			scoreStyle = lipgloss.NewStyle().Foreground(styles.Red)
		}
		line := styles.RenderStars(a.Stars()) + "  " + scoreStyle.Render(fmt.Sprintf("%.2f", a.Score))
		if i.detail != nil && i.detail.ScoredBy > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf(" (%d users)", i.detail.ScoredBy))
		}
		b.WriteString(line)
	} else {
		b.WriteString(styles.DimStyle.Render("Not yet scored"))
	}

	return b.String()
}

func (i Inspector) renderBody(width int) string {
	a := i.summary
	bodyWidth := min(width-2, 80)

	var lines []string
	field := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("%-10s", label))+
			styles.SubtitleStyle.Render(styles.Truncate(value, max(bodyWidth-10, 10))))
	}

	field("Rating", a.Rating)
	field("Genres", strings.Join(a.GenreNames(0), ", "))
	field("Studios", strings.Join(a.ProducerNames(4), ", "))

	if d := i.detail; d != nil {
		var themes []string
		for _, t := range d.Themes {
			themes = append(themes, t.Name)
		}
		field("Themes", strings.Join(themes, ", "))
		if d.Episodes > 0 {
			field("Episodes", fmt.Sprintf("%d", d.Episodes))
		}
		field("Duration", d.Duration)
		field("Aired", d.AiredLabel())
		if d.Favorites > 0 {
			field("Favorites", fmt.Sprintf("%d", d.Favorites))
		}

		if d.Synopsis != "" {
			lines = append(lines, "")
			for _, para := range strings.Split(d.Synopsis, "\n") {
				if strings.TrimSpace(para) == "" {
					continue
				}
				lines = append(lines, styles.SubtitleStyle.Render(wordWrap(para, bodyWidth)), "")
			}
		}
	}

	if i.err != nil {
		lines = append(lines, "", styles.ErrorStyle.Render(wordWrap("Could not load details: "+i.err.Error(), bodyWidth)))
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func (i Inspector) renderFooter(width int) string {
	var hints []string
	if i.preview {
		hints = append(hints, styles.AccentStyle.Render("enter")+styles.DimStyle.Render(" Details"))
	}

	save := "Save for later"
	if i.saved {
		save = "Remove from list"
	}
	hints = append(hints, styles.AccentStyle.Render("space")+styles.DimStyle.Render(" "+save))
	if i.summary.URL != "" {
		hints = append(hints, styles.AccentStyle.Render("o")+styles.DimStyle.Render(" Page"))
	}
	if i.detail != nil && i.detail.TrailerURL != "" {
		hints = append(hints, styles.AccentStyle.Render("t")+styles.DimStyle.Render(" Trailer"))
	}
	if !i.preview {
		hints = append(hints, styles.AccentStyle.Render("r")+styles.DimStyle.Render(" Reload"))
	}

	return styles.DimStyle.Render(strings.Repeat("─", width)) + "\n" + strings.Join(hints, "  ")
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}

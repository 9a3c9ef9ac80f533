package components

import (
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anigo/internal/domain"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *FilterModal, keys ...string) *domain.FilterPatch {
	var patch *domain.FilterPatch
	for _, k := range keys {
		_, patch = m.HandleKeyMsg(keyMsg(k))
	}
	return patch
}

var testGenres = []domain.Genre{
	{ID: 1, Name: "Action"},
	{ID: 4, Name: "Comedy"},
	{ID: 8, Name: "Drama"},
}

func TestFilterModalAppliesStagedValues(t *testing.T) {
	m := NewFilterModal()
	m.Show(domain.DefaultCriteria(), testGenres)

	// Type: Any -> TV; Rating: Any -> Rx (backwards); genres: Action include, Comedy exclude
	patch := press(&m,
		"l",
		"j", "h",
		"j", "j", "l",
		"j", "l", "l",
		"enter",
	)
	if patch == nil {
		t.Fatal("enter did not apply a patch")
	}
	if m.IsVisible() {
		t.Error("modal still visible after apply")
	}

	if got := *patch.Type; got != domain.TypeTV {
		t.Errorf("Type = %q, want %q", got, domain.TypeTV)
	}
	if got := *patch.Rating; got != domain.RatingRx {
		t.Errorf("Rating = %q, want %q", got, domain.RatingRx)
	}
	if got := *patch.Status; got != "" {
		t.Errorf("Status = %q, want cleared", got)
	}
	if got := *patch.Genres; !slices.Equal(got, []int{1}) {
		t.Errorf("Genres = %v, want [1]", got)
	}
	if got := *patch.ExcludedGenres; !slices.Equal(got, []int{4}) {
		t.Errorf("ExcludedGenres = %v, want [4]", got)
	}
}

func TestFilterModalStartsFromCriteria(t *testing.T) {
	c := domain.DefaultCriteria()
	c.Status = domain.StatusAiring
	c.Genres = []int{8}
	c.ExcludedGenres = []int{1}

	m := NewFilterModal()
	m.Show(c, testGenres)
	patch := press(&m, "enter")

	if got := *patch.Status; got != domain.StatusAiring {
		t.Errorf("Status = %q, want %q", got, domain.StatusAiring)
	}
	if got := *patch.Genres; !slices.Equal(got, []int{8}) {
		t.Errorf("Genres = %v, want [8]", got)
	}
	if got := *patch.ExcludedGenres; !slices.Equal(got, []int{1}) {
		t.Errorf("ExcludedGenres = %v, want [1]", got)
	}
}

func TestFilterModalResetAndCancel(t *testing.T) {
	c := domain.DefaultCriteria()
	c.Type = domain.TypeMovie
	c.Genres = []int{4}

	m := NewFilterModal()
	m.Show(c, testGenres)
	patch := press(&m, "x", "enter")
	if *patch.Type != "" || len(*patch.Genres) != 0 {
		t.Errorf("after reset patch = type %q genres %v, want both cleared", *patch.Type, *patch.Genres)
	}

	m.Show(c, testGenres)
	if patch := press(&m, "l", "esc"); patch != nil {
		t.Errorf("esc returned patch %+v, want nil", patch)
	}
	if m.IsVisible() {
		t.Error("modal still visible after esc")
	}
}

func TestFilterModalCursorStaysInBounds(t *testing.T) {
	m := NewFilterModal()
	m.Show(domain.DefaultCriteria(), testGenres)
	press(&m, "k", "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after moving up from top, want 0", m.cursor)
	}
	for range 20 {
		press(&m, "j")
	}
	if want := enumRows + len(testGenres) - 1; m.cursor != want {
		t.Errorf("cursor = %d after moving past bottom, want %d", m.cursor, want)
	}
}

func TestCycleEnumWraps(t *testing.T) {
	tests := []struct {
		cur  domain.Status
		step int
		want domain.Status
	}{
		{"", 1, domain.StatusAiring},
		{domain.StatusUpcoming, 1, ""},
		{"", -1, domain.StatusUpcoming},
		{domain.StatusAiring, -1, ""},
	}
	for _, tt := range tests {
		if got := cycleEnum(domain.Statuses(), tt.cur, tt.step); got != tt.want {
			t.Errorf("cycleEnum(%q, %d) = %q, want %q", tt.cur, tt.step, got, tt.want)
		}
	}
}

func TestSortModalSelection(t *testing.T) {
	tests := []struct {
		name      string
		field     domain.OrderBy
		dir       domain.SortDirection
		keys      []string
		wantField domain.OrderBy
		wantDir   domain.SortDirection
	}{
		{
			name:      "reselecting active field toggles direction",
			field:     domain.OrderScore,
			dir:       domain.SortDesc,
			keys:      []string{"enter"},
			wantField: domain.OrderScore,
			wantDir:   domain.SortAsc,
		},
		{
			name:      "new field takes its default direction",
			field:     domain.OrderPopularity,
			dir:       domain.SortDesc,
			keys:      []string{"j", "enter"},
			wantField: domain.OrderScore,
			wantDir:   domain.SortDesc,
		},
		{
			name:      "title defaults to ascending",
			field:     domain.OrderEndDate,
			dir:       domain.SortDesc,
			keys:      []string{"j", "enter"},
			wantField: domain.OrderTitle,
			wantDir:   domain.SortAsc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSortModal()
			m.Show(tt.field, tt.dir)

			var sel *SortSelection
			for _, k := range tt.keys {
				_, sel = m.HandleKey(k)
			}
			if sel == nil {
				t.Fatal("no selection returned")
			}
			if sel.Field != tt.wantField || sel.Direction != tt.wantDir {
				t.Errorf("selection = %s %s, want %s %s", sel.Field, sel.Direction, tt.wantField, tt.wantDir)
			}
			if m.IsVisible() {
				t.Error("modal still visible after selection")
			}
		})
	}
}

func TestDefaultCriteriaUsesFieldDirection(t *testing.T) {
	c := domain.DefaultCriteria()
	if want := DefaultDirection(c.OrderBy); c.Sort != want {
		t.Errorf("DefaultCriteria() sorts %s %s, want %s", c.OrderBy, c.Sort, want)
	}
}

func TestSortModalEscapeKeepsSort(t *testing.T) {
	m := NewSortModal()
	m.Show(domain.OrderScore, domain.SortDesc)
	if _, sel := m.HandleKey("j"); sel != nil {
		t.Errorf("navigation returned selection %+v", sel)
	}
	if _, sel := m.HandleKey("esc"); sel != nil {
		t.Errorf("esc returned selection %+v", sel)
	}
	if m.IsVisible() {
		t.Error("modal still visible after esc")
	}
	if handled, _ := m.HandleKey("j"); handled {
		t.Error("hidden modal handled a key")
	}
}

func TestInputModalSubmitAndCancel(t *testing.T) {
	m := NewInputModal("")
	m.Show("Search", "fri")

	m, _, _ = m.Update(keyMsg("e"))
	if got := m.Value(); got != "frie" {
		t.Errorf("Value() = %q, want %q", got, "frie")
	}

	var submitted bool
	m, _, submitted = m.Update(keyMsg("enter"))
	if !submitted || m.IsVisible() {
		t.Errorf("enter: submitted=%v visible=%v, want true false", submitted, m.IsVisible())
	}

	m.Show("Search", "x")
	m, _, submitted = m.Update(keyMsg("esc"))
	if submitted || m.IsVisible() {
		t.Errorf("esc: submitted=%v visible=%v, want false false", submitted, m.IsVisible())
	}
}

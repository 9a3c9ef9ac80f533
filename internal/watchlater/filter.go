package watchlater

import (
	"strings"

	"github.com/mmcdole/anigo/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Match is a filtered entry with the title positions that matched
type Match struct {
	Entry          domain.SavedEntry
	MatchedIndexes []int
}

// titleSource implements fuzzy.Source over a view without copying titles
type titleSource []domain.SavedEntry

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

// Filter fuzzy matches query against the titles in view, best match first.
// A blank query returns the whole view in its given order.
func Filter(view []domain.SavedEntry, query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Match, len(view))
		for i, e := range view {
			out[i] = Match{Entry: e}
		}
		return out
	}

	results := fuzzy.FindFrom(query, titleSource(view))
	out := make([]Match, len(results))
	for i, r := range results {
		out[i] = Match{Entry: view[r.Index], MatchedIndexes: r.MatchedIndexes}
	}
	return out
}

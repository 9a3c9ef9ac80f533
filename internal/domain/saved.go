package domain

import (
	"fmt"
	"time"
)

// DefaultWeight is the priority a saved entry gets when none is given
const DefaultWeight = 1

// SavedEntry is one item on the user's watch-later list.
// Title and ImageURL are captured at save time and never refreshed.
type SavedEntry struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url"`
	Weight   int       `json:"weight"`
	SavedAt  time.Time `json:"saved_at"`
}

// NewSavedEntry captures a catalog record for the watch-later list
func NewSavedEntry(a Anime, weight int, at time.Time) SavedEntry {
	return SavedEntry{
		ID:       a.ID,
		Title:    a.Title,
		ImageURL: a.ImageURL,
		Weight:   weight,
		SavedAt:  at,
	}
}

// SortKey is a field the watch-later list can be ordered by
type SortKey string

const (
	SortByWeight  SortKey = "weight"
	SortBySavedAt SortKey = "savedAt"
)

func (k SortKey) Valid() bool { return k == SortByWeight || k == SortBySavedAt }

// ParseSortKey parses a watch-later sort key
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: sort key %q", ErrInvalidEnum, s)
	}
	return k, nil
}

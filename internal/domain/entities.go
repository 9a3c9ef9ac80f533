package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Ref is a named reference to another catalog entity (genre, producer, theme)
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Anime is one catalog record as returned by a list request
type Anime struct {
	ID       int    // MAL identifier
	Title    string // Display title
	ImageURL string // Poster image URL
	URL      string // Canonical catalog page

	// Classification attributes as reported by the catalog
	Type   string // "TV", "Movie", ...
	Rating string // "PG-13 - Teens 13 or older"
	Status string // "Finished Airing"
	Season string // "spring"
	Year   int

	Genres    []Ref
	Producers []Ref

	// Score (0-10 scale, community rating)
	Score float64
}

// Stars returns the score on a five star scale
func (a Anime) Stars() int {
	stars := int(math.Round(a.Score / 2))
	switch {
	case stars < 0:
		return 0
	case stars > 5:
		return 5
	default:
		return stars
	}
}

// SeasonLabel returns "Spring 2024", or whichever half is known
func (a Anime) SeasonLabel() string {
	season := ""
	if a.Season != "" {
		season = strings.ToUpper(a.Season[:1]) + a.Season[1:]
	}
	switch {
	case season != "" && a.Year > 0:
		return fmt.Sprintf("%s %d", season, a.Year)
	case a.Year > 0:
		return fmt.Sprintf("%d", a.Year)
	default:
		return season
	}
}

// GenreNames returns up to limit genre names (limit <= 0 returns all)
func (a Anime) GenreNames(limit int) []string {
	return refNames(a.Genres, limit)
}

// ProducerNames returns up to limit producer names (limit <= 0 returns all)
func (a Anime) ProducerNames(limit int) []string {
	return refNames(a.Producers, limit)
}

func refNames(refs []Ref, limit int) []string {
	if limit <= 0 || limit > len(refs) {
		limit = len(refs)
	}
	names := make([]string, 0, limit)
	for _, r := range refs[:limit] {
		names = append(names, r.Name)
	}
	return names
}

// AnimeDetail is the full record shown on a detail page
type AnimeDetail struct {
	Anime

	TitleEnglish  string
	TitleJapanese string
	Synopsis      string
	ScoredBy      int
	Favorites     int
	Episodes      int    // 0 when unknown (still airing)
	Duration      string // "24 min per ep"
	TrailerURL    string
	Themes        []Ref

	AiredFrom time.Time // zero when unknown
	AiredTo   time.Time // zero when unknown or still airing
}

// AiredLabel returns the airing range in a human-readable format
func (d AnimeDetail) AiredLabel() string {
	const layout = "Jan 2, 2006"
	switch {
	case d.AiredFrom.IsZero():
		return "Unknown"
	case d.AiredTo.IsZero():
		return d.AiredFrom.Format(layout) + " to ?"
	case d.AiredFrom.Equal(d.AiredTo):
		return d.AiredFrom.Format(layout)
	default:
		return d.AiredFrom.Format(layout) + " to " + d.AiredTo.Format(layout)
	}
}

// Genre is one entry of the catalog's genre taxonomy
type Genre struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnimePage is a single page of list results plus pagination metadata
type AnimePage struct {
	Items       []Anime
	CurrentPage int
	LastPage    int // last visible page reported by the catalog
	HasNext     bool
	Total       int // total matching records
}

// ListQuery is a fully resolved list request
type ListQuery struct {
	Page     int
	Limit    int
	Criteria FilterCriteria
}

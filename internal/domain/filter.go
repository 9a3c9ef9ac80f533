package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// AnimeType is the catalog's media format filter
type AnimeType string

const (
	TypeTV        AnimeType = "tv"
	TypeMovie     AnimeType = "movie"
	TypeOVA       AnimeType = "ova"
	TypeSpecial   AnimeType = "special"
	TypeONA       AnimeType = "ona"
	TypeMusic     AnimeType = "music"
	TypeCM        AnimeType = "cm"
	TypePV        AnimeType = "pv"
	TypeTVSpecial AnimeType = "tv_special"
)

// AnimeTypes lists every filterable type in display order
func AnimeTypes() []AnimeType {
	return []AnimeType{TypeTV, TypeMovie, TypeOVA, TypeSpecial, TypeONA, TypeMusic, TypeCM, TypePV, TypeTVSpecial}
}

func (t AnimeType) Valid() bool { return slices.Contains(AnimeTypes(), t) }

func (t AnimeType) Label() string {
	switch t {
	case TypeTV:
		return "TV"
	case TypeMovie:
		return "Movie"
	case TypeOVA:
		return "OVA"
	case TypeSpecial:
		return "Special"
	case TypeONA:
		return "ONA"
	case TypeMusic:
		return "Music"
	case TypeCM:
		return "CM"
	case TypePV:
		return "PV"
	case TypeTVSpecial:
		return "TV Special"
	default:
		return "Any"
	}
}

// ParseAnimeType parses a type filter value
func ParseAnimeType(s string) (AnimeType, error) {
	return parseEnum("type", s, AnimeTypes())
}

// Rating is the catalog's audience rating filter
type Rating string

const (
	RatingG    Rating = "g"
	RatingPG   Rating = "pg"
	RatingPG13 Rating = "pg13"
	RatingR17  Rating = "r17"
	RatingR    Rating = "r"
	RatingRx   Rating = "rx"
)

// Ratings lists every filterable rating in display order
func Ratings() []Rating {
	return []Rating{RatingG, RatingPG, RatingPG13, RatingR17, RatingR, RatingRx}
}

func (r Rating) Valid() bool { return slices.Contains(Ratings(), r) }

func (r Rating) Label() string {
	switch r {
	case RatingG:
		return "G - All Ages"
	case RatingPG:
		return "PG - Children"
	case RatingPG13:
		return "PG-13 - Teens 13 or older"
	case RatingR17:
		return "R - 17+"
	case RatingR:
		return "R+ - Mild Nudity"
	case RatingRx:
		return "Rx - Hentai"
	default:
		return "Any"
	}
}

// ParseRating parses a rating filter value
func ParseRating(s string) (Rating, error) {
	return parseEnum("rating", s, Ratings())
}

// Status is the catalog's airing status filter
type Status string

const (
	StatusAiring   Status = "airing"
	StatusComplete Status = "complete"
	StatusUpcoming Status = "upcoming"
)

// Statuses lists every filterable status in display order
func Statuses() []Status {
	return []Status{StatusAiring, StatusComplete, StatusUpcoming}
}

func (s Status) Valid() bool { return slices.Contains(Statuses(), s) }

func (s Status) Label() string {
	switch s {
	case StatusAiring:
		return "Airing"
	case StatusComplete:
		return "Complete"
	case StatusUpcoming:
		return "Upcoming"
	default:
		return "Any"
	}
}

// ParseStatus parses a status filter value
func ParseStatus(s string) (Status, error) {
	return parseEnum("status", s, Statuses())
}

// OrderBy is the field the catalog sorts list results by
type OrderBy string

const (
	OrderPopularity OrderBy = "popularity"
	OrderScore      OrderBy = "score"
	OrderMembers    OrderBy = "members"
	OrderFavorites  OrderBy = "favorites"
	OrderEpisodes   OrderBy = "episodes"
	OrderStartDate  OrderBy = "start_date"
	OrderEndDate    OrderBy = "end_date"
	OrderTitle      OrderBy = "title"
	OrderRank       OrderBy = "rank"
	OrderScoredBy   OrderBy = "scored_by"
	OrderMalID      OrderBy = "mal_id"
)

// OrderFields lists every sortable field in display order
func OrderFields() []OrderBy {
	return []OrderBy{
		OrderPopularity, OrderScore, OrderMembers, OrderFavorites, OrderEpisodes,
		OrderStartDate, OrderEndDate, OrderTitle, OrderRank, OrderScoredBy, OrderMalID,
	}
}

func (o OrderBy) Valid() bool { return slices.Contains(OrderFields(), o) }

func (o OrderBy) Label() string {
	switch o {
	case OrderPopularity:
		return "Popularity"
	case OrderScore:
		return "Score"
	case OrderMembers:
		return "Members"
	case OrderFavorites:
		return "Favorites"
	case OrderEpisodes:
		return "Episodes"
	case OrderStartDate:
		return "Start Date"
	case OrderEndDate:
		return "End Date"
	case OrderTitle:
		return "Title"
	case OrderRank:
		return "Rank"
	case OrderScoredBy:
		return "Scored By"
	case OrderMalID:
		return "MAL ID"
	default:
		return "Default"
	}
}

// ParseOrderBy parses a sort field
func ParseOrderBy(s string) (OrderBy, error) {
	return parseEnum("order_by", s, OrderFields())
}

// SortDirection is the direction list results are sorted in
type SortDirection string

const (
	SortDesc SortDirection = "desc"
	SortAsc  SortDirection = "asc"
)

func (d SortDirection) Valid() bool { return d == SortDesc || d == SortAsc }

// Toggle returns the opposite direction
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Arrow returns a one-character direction indicator
func (d SortDirection) Arrow() string {
	if d == SortAsc {
		return "↑"
	}
	return "↓"
}

// ParseSortDirection parses a sort direction
func ParseSortDirection(s string) (SortDirection, error) {
	return parseEnum("sort", s, []SortDirection{SortDesc, SortAsc})
}

func parseEnum[T ~string](kind, s string, valid []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(valid, v) {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrInvalidEnum, kind, s)
	}
	return v, nil
}

// FilterCriteria is the complete set of list inputs.
// The zero value matches the unfiltered catalog.
type FilterCriteria struct {
	Search         string
	Type           AnimeType
	Rating         Rating
	Status         Status
	Genres         []int
	ExcludedGenres []int
	Producers      []int
	OrderBy        OrderBy
	Sort           SortDirection
	StartDate      time.Time
	EndDate        time.Time
}

// DateLayout is the calendar date format for start and end bounds
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date bound
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidFilter, s)
	}
	return t, nil
}

// DefaultCriteria returns the criteria a fresh browse session starts with.
// Popularity is a rank, so ascending puts #1 first.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{OrderBy: OrderPopularity, Sort: SortAsc}
}

// IsEmpty reports whether no narrowing filter is set (sort is not a filter)
func (c FilterCriteria) IsEmpty() bool {
	return c.ActiveFilters() == 0
}

// ActiveFilters counts the narrowing fields that are set
func (c FilterCriteria) ActiveFilters() int {
	n := 0
	for _, set := range []bool{
		c.Search != "",
		c.Type != "",
		c.Rating != "",
		c.Status != "",
		len(c.Genres) > 0,
		len(c.ExcludedGenres) > 0,
		len(c.Producers) > 0,
		!c.StartDate.IsZero(),
		!c.EndDate.IsZero(),
	} {
		if set {
			n++
		}
	}
	return n
}

// Clone returns a deep copy
func (c FilterCriteria) Clone() FilterCriteria {
	c.Genres = slices.Clone(c.Genres)
	c.ExcludedGenres = slices.Clone(c.ExcludedGenres)
	c.Producers = slices.Clone(c.Producers)
	return c
}

// FilterPatch is a partial update to FilterCriteria; nil fields are left unchanged.
// A pointer to the zero value clears the field.
type FilterPatch struct {
	Type           *AnimeType
	Rating         *Rating
	Status         *Status
	Genres         *[]int
	ExcludedGenres *[]int
	Producers      *[]int
	StartDate      *time.Time
	EndDate        *time.Time
}

// Validate checks every set field against its domain
func (p FilterPatch) Validate() error {
	if p.Type != nil && *p.Type != "" && !p.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidEnum, *p.Type)
	}
	if p.Rating != nil && *p.Rating != "" && !p.Rating.Valid() {
		return fmt.Errorf("%w: rating %q", ErrInvalidEnum, *p.Rating)
	}
	if p.Status != nil && *p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidEnum, *p.Status)
	}
	for name, ids := range map[string]*[]int{
		"genres":          p.Genres,
		"excluded genres": p.ExcludedGenres,
		"producers":       p.Producers,
	} {
		if ids == nil {
			continue
		}
		for _, id := range *ids {
			if id <= 0 {
				return fmt.Errorf("%w: %s contains id %d", ErrInvalidFilter, name, id)
			}
		}
	}
	return nil
}

// Merge applies the patch to c. The result is returned only if the patch and
// the merged criteria are both valid; c itself is never modified.
func (c FilterCriteria) Merge(p FilterPatch) (FilterCriteria, error) {
	if err := p.Validate(); err != nil {
		return c, err
	}

	out := c.Clone()
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Rating != nil {
		out.Rating = *p.Rating
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Genres != nil {
		out.Genres = dedupeIDs(*p.Genres)
	}
	if p.ExcludedGenres != nil {
		out.ExcludedGenres = dedupeIDs(*p.ExcludedGenres)
	}
	if p.Producers != nil {
		out.Producers = dedupeIDs(*p.Producers)
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = *p.EndDate
	}

	for _, id := range out.Genres {
		if slices.Contains(out.ExcludedGenres, id) {
			return c, fmt.Errorf("%w: genre %d is both included and excluded", ErrInvalidFilter, id)
		}
	}
	if !out.StartDate.IsZero() && !out.EndDate.IsZero() && out.StartDate.After(out.EndDate) {
		return c, fmt.Errorf("%w: start date after end date", ErrInvalidFilter)
	}
	return out, nil
}

// dedupeIDs copies ids dropping repeats, keeping first-seen order
func dedupeIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

package jikan

import (
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

// MapAnime converts the API resource to a list record
func MapAnime(a AnimeDTO) domain.Anime {
	return domain.Anime{
		ID:        a.MalID,
		Title:     a.Title,
		ImageURL:  pickImage(a.Images),
		URL:       a.URL,
		Type:      a.Type,
		Rating:    a.Rating,
		Status:    a.Status,
		Season:    a.Season,
		Year:      deref(a.Year),
		Genres:    mapRefs(a.Genres),
		Producers: mapRefs(a.Producers),
		Score:     deref(a.Score),
	}
}

// MapAnimeList converts a page of resources, dropping entries without an id
func MapAnimeList(items []AnimeDTO) []domain.Anime {
	out := make([]domain.Anime, 0, len(items))
	for _, a := range items {
		if a.MalID <= 0 {
			continue
		}
		out = append(out, MapAnime(a))
	}
	return out
}

// MapAnimeDetail converts the API resource to a detail record
func MapAnimeDetail(a AnimeDTO) *domain.AnimeDetail {
	return &domain.AnimeDetail{
		Anime:         MapAnime(a),
		TitleEnglish:  a.TitleEnglish,
		TitleJapanese: a.TitleJapanese,
		Synopsis:      a.Synopsis,
		ScoredBy:      deref(a.ScoredBy),
		Favorites:     a.Favorites,
		Episodes:      deref(a.Episodes),
		Duration:      a.Duration,
		TrailerURL:    a.Trailer.URL,
		Themes:        mapRefs(a.Themes),
		AiredFrom:     parseTime(a.Aired.From),
		AiredTo:       parseTime(a.Aired.To),
	}
}

// MapGenres converts the genre taxonomy
func MapGenres(items []GenreDTO) []domain.Genre {
	out := make([]domain.Genre, 0, len(items))
	for _, g := range items {
		out = append(out, domain.Genre{ID: g.MalID, Name: g.Name, Count: g.Count})
	}
	return out
}

// MapPage converts a list envelope; requested is used when pagination is absent
func MapPage(resp ListResponse, requested int) domain.AnimePage {
	page := domain.AnimePage{
		Items:       MapAnimeList(resp.Data),
		CurrentPage: requested,
	}
	if p := resp.Pagination; p != nil {
		if p.CurrentPage > 0 {
			page.CurrentPage = p.CurrentPage
		}
		page.LastPage = p.LastVisiblePage
		page.HasNext = p.HasNextPage
		page.Total = p.Items.Total
	}
	return page
}

// pickImage prefers webp, falling back to jpg
func pickImage(img Images) string {
	if img.WebP.ImageURL != "" {
		return img.WebP.ImageURL
	}
	return img.JPG.ImageURL
}

func mapRefs(items []EntityDTO) []domain.Ref {
	if len(items) == 0 {
		return nil
	}
	refs := make([]domain.Ref, 0, len(items))
	for _, e := range items {
		refs = append(refs, domain.Ref{ID: e.MalID, Name: e.Name})
	}
	return refs
}

// parseTime parses an ISO 8601 timestamp, returning zero on failure
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

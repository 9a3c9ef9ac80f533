package jikan

import "encoding/json"

// ListResponse is the envelope of GET /anime
type ListResponse struct {
	Data       []AnimeDTO  `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// DetailResponse is the envelope of GET /anime/{id}
type DetailResponse struct {
	Data *AnimeDTO `json:"data"`
}

// GenresResponse is the envelope of GET /genres/anime
type GenresResponse struct {
	Data []GenreDTO `json:"data"`
}

// ErrorResponse is the body Jikan returns with non-2xx statuses
type ErrorResponse struct {
	Status  json.Number `json:"status"`
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Error   string      `json:"error"`
}

// Pagination describes the position of a list page
type Pagination struct {
	LastVisiblePage int             `json:"last_visible_page"`
	HasNextPage     bool            `json:"has_next_page"`
	CurrentPage     int             `json:"current_page"`
	Items           PaginationItems `json:"items"`
}

// PaginationItems carries item counts for a list page
type PaginationItems struct {
	Count   int `json:"count"`
	Total   int `json:"total"`
	PerPage int `json:"per_page"`
}

// AnimeDTO is the anime resource; list and detail responses share it
type AnimeDTO struct {
	MalID         int         `json:"mal_id"`
	URL           string      `json:"url"`
	Images        Images      `json:"images"`
	Trailer       Trailer     `json:"trailer"`
	Title         string      `json:"title"`
	TitleEnglish  string      `json:"title_english"`
	TitleJapanese string      `json:"title_japanese"`
	Type          string      `json:"type"`
	Episodes      *int        `json:"episodes"` // null while airing
	Status        string      `json:"status"`
	Aired         Aired       `json:"aired"`
	Duration      string      `json:"duration"`
	Rating        string      `json:"rating"`
	Score         *float64    `json:"score"` // null when unscored
	ScoredBy      *int        `json:"scored_by"`
	Favorites     int         `json:"favorites"`
	Synopsis      string      `json:"synopsis"`
	Season        string      `json:"season"`
	Year          *int        `json:"year"`
	Producers     []EntityDTO `json:"producers"`
	Genres        []EntityDTO `json:"genres"`
	Themes        []EntityDTO `json:"themes"`
}

// Images holds per-format image sets
type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

// ImageSet holds the URLs of one image format
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Trailer references a YouTube trailer
type Trailer struct {
	YoutubeID string `json:"youtube_id"`
	URL       string `json:"url"`
	EmbedURL  string `json:"embed_url"`
}

// Aired is the airing date range
type Aired struct {
	From   string `json:"from"`
	To     string `json:"to"`
	String string `json:"string"`
}

// EntityDTO is a named reference (genre, producer, theme)
type EntityDTO struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// GenreDTO is one entry of GET /genres/anime
type GenreDTO struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

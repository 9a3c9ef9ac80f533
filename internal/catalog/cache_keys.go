package catalog

import "strconv"

// Cache key prefixes for catalog content
const (
	// PrefixAnime is the prefix for detail caches (anime:{id})
	PrefixAnime = "anime:"

	// KeyGenres is the cache key for the anime genre taxonomy
	KeyGenres = "genres:anime"
)

func animeKey(id int) string {
	return PrefixAnime + strconv.Itoa(id)
}

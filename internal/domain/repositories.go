package domain

import "context"

// CatalogRepository provides read access to the remote anime catalog
type CatalogRepository interface {
	// ListAnime returns one page of records matching the query
	ListAnime(ctx context.Context, q ListQuery) (AnimePage, error)

	// GetAnime returns the full record for one entry
	GetAnime(ctx context.Context, id int) (*AnimeDetail, error)

	// ListGenres returns the complete genre taxonomy
	ListGenres(ctx context.Context) ([]Genre, error)
}

// KeyValue is a durable byte slot store.
// Get reports found == false for missing keys; err is reserved for storage failures.
type KeyValue interface {
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
}

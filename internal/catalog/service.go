package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/anigo/internal/domain"
)

const (
	DefaultTTL      = 24 * time.Hour
	DefaultGenreTTL = 7 * 24 * time.Hour
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	TTL      time.Duration // detail entries
	GenreTTL time.Duration
	Now      func() time.Time
}

// cacheEntry stores cached data with the time it was fetched
type cacheEntry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Service serves detail records and the genre taxonomy, caching both.
// List pages are passed through uncached.
type Service struct {
	repo   domain.CatalogRepository
	cache  domain.Cache
	opts   Options
	logger *slog.Logger

	mu     sync.RWMutex
	genres []domain.Genre
}

// NewService creates a catalog service. A nil cache disables caching.
func NewService(repo domain.CatalogRepository, cache domain.Cache, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.GenreTTL <= 0 {
		opts.GenreTTL = DefaultGenreTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}
}

// ListAnime fetches one list page from the catalog
func (s *Service) ListAnime(ctx context.Context, q domain.ListQuery) (domain.AnimePage, error) {
	return s.repo.ListAnime(ctx, q)
}

// Detail returns the full record for id, from cache when fresh
func (s *Service) Detail(ctx context.Context, id int) (*domain.AnimeDetail, error) {
	key := animeKey(id)

	var cached domain.AnimeDetail
	if s.load(key, s.opts.TTL, &cached) {
		s.logger.Debug("cache hit", "key", key)
		return &cached, nil
	}

	detail, err := s.repo.GetAnime(ctx, id)
	if err != nil {
		s.logger.Error("failed to get anime", "error", err, "id", id)
		return nil, err
	}

	s.save(key, detail)
	return detail, nil
}

// RefreshDetail drops the cached record for id and fetches it again
func (s *Service) RefreshDetail(ctx context.Context, id int) (*domain.AnimeDetail, error) {
	if s.cache != nil {
		if err := s.cache.Delete(animeKey(id)); err != nil {
			s.logger.Warn("failed to drop cache entry", "id", id, "error", err)
		}
	}
	return s.Detail(ctx, id)
}

// Genres returns the genre taxonomy sorted by name
func (s *Service) Genres(ctx context.Context) ([]domain.Genre, error) {
	s.mu.RLock()
	if s.genres != nil {
		genres := slices.Clone(s.genres)
		s.mu.RUnlock()
		return genres, nil
	}
	s.mu.RUnlock()

	var genres []domain.Genre
	if !s.load(KeyGenres, s.opts.GenreTTL, &genres) {
		fetched, err := s.repo.ListGenres(ctx)
		if err != nil {
			s.logger.Error("failed to get genres", "error", err)
			return nil, err
		}
		genres = fetched
		s.save(KeyGenres, genres)
		s.logger.Info("loaded genres", "count", len(genres))
	}

	slices.SortFunc(genres, func(a, b domain.Genre) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	s.mu.Lock()
	s.genres = genres
	s.mu.Unlock()
	return slices.Clone(genres), nil
}

// GenreName returns the display name of a genre id, or "" if unknown
func (s *Service) GenreName(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.genres {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

// ResolveGenres maps user-typed genre names to ids. Exact (case-insensitive)
// names win; otherwise the closest fuzzy match is taken.
func (s *Service) ResolveGenres(ctx context.Context, names []string) ([]int, error) {
	genres, err := s.Genres(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]string, len(genres))
	for i, g := range genres {
		targets[i] = g.Name
	}

	var ids []int
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		idx := slices.IndexFunc(targets, func(t string) bool { return strings.EqualFold(t, name) })
		if idx < 0 {
			ranks := fuzzy.RankFindNormalizedFold(name, targets)
			if len(ranks) == 0 {
				return nil, fmt.Errorf("%w: unknown genre %q", domain.ErrInvalidFilter, name)
			}
			sort.Sort(ranks)
			idx = ranks[0].OriginalIndex
			s.logger.Debug("resolved genre by fuzzy match", "input", name, "genre", targets[idx])
		}

		if id := genres[idx].ID; !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Invalidate drops every cached catalog entry
func (s *Service) Invalidate() error {
	s.mu.Lock()
	s.genres = nil
	s.mu.Unlock()

	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear catalog cache: %w", err)
	}
	s.logger.Info("cleared catalog cache")
	return nil
}

// load decodes a fresh cache entry into dest
func (s *Service) load(key string, ttl time.Duration, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, found, err := s.cache.Get(key)
	if err != nil {
		s.logger.Warn("failed to read cache", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.logger.Warn("corrupt cache entry", "key", key, "error", err)
		return false
	}
	if s.opts.Now().Sub(entry.FetchedAt) > ttl {
		s.logger.Debug("cache expired", "key", key, "fetchedAt", entry.FetchedAt)
		return false
	}
	if err := json.Unmarshal(entry.Data, dest); err != nil {
		s.logger.Warn("corrupt cache entry", "key", key, "error", err)
		return false
	}
	return true
}

// save writes value under key; failures are logged, never returned
func (s *Service) save(key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	raw, err := json.Marshal(cacheEntry{Data: data, FetchedAt: s.opts.Now()})
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Put(key, raw); err != nil {
		s.logger.Warn("failed to write cache", "key", key, "error", err)
	}
}

// InvalidateDetails drops cached detail records and keeps the genre taxonomy
func (s *Service) InvalidateDetails() error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeletePrefix(PrefixAnime); err != nil {
		return fmt.Errorf("failed to clear cached details: %w", err)
	}
	s.logger.Info("cleared cached details")
	return nil
}

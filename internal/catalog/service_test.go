package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/store"
)

type fakeRepo struct {
	detailCalls int
	genreCalls  int
	err         error
}

func (f *fakeRepo) ListAnime(context.Context, domain.ListQuery) (domain.AnimePage, error) {
	return domain.AnimePage{}, f.err
}

func (f *fakeRepo) GetAnime(_ context.Context, id int) (*domain.AnimeDetail, error) {
	f.detailCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnimeDetail{
		Anime:     domain.Anime{ID: id, Title: "Cowboy Bebop", Genres: []domain.Ref{{ID: 1, Name: "Action"}}},
		Synopsis:  "Crime is timeless.",
		AiredFrom: time.Date(1998, 4, 3, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeRepo) ListGenres(context.Context) ([]domain.Genre, error) {
	f.genreCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Genre{
		{ID: 4, Name: "Comedy"},
		{ID: 1, Name: "Action"},
		{ID: 22, Name: "Romance"},
		{ID: 24, Name: "Sci-Fi"},
		{ID: 36, Name: "Slice of Life"},
	}, nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, repo *fakeRepo) (*Service, *testClock, domain.Cache) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(repo, st.Cache(), Options{TTL: time.Hour, GenreTTL: 24 * time.Hour, Now: clock.Now},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, clock, st.Cache()
}

func TestDetailIsCached(t *testing.T) {
	repo := &fakeRepo{}
	svc, clock, _ := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.Detail(ctx, 1)
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	second, err := svc.Detail(ctx, 1)
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if repo.detailCalls != 1 {
		t.Errorf("repo calls = %d, want 1", repo.detailCalls)
	}
	if second.Title != first.Title || !second.AiredFrom.Equal(first.AiredFrom) || len(second.Genres) != 1 {
		t.Errorf("cached detail = %+v, want %+v", second, first)
	}

	clock.now = clock.now.Add(2 * time.Hour)
	if _, err := svc.Detail(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if repo.detailCalls != 2 {
		t.Errorf("repo calls after expiry = %d, want 2", repo.detailCalls)
	}

	if _, err := svc.RefreshDetail(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if repo.detailCalls != 3 {
		t.Errorf("repo calls after refresh = %d, want 3", repo.detailCalls)
	}
}

func TestDetailErrorIsNotCached(t *testing.T) {
	repo := &fakeRepo{err: domain.ErrNotFound}
	svc, _, cache := newTestService(t, repo)

	if _, err := svc.Detail(context.Background(), 9); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Detail() error = %v, want ErrNotFound", err)
	}
	if _, found, _ := cache.Get(animeKey(9)); found {
		t.Error("failure was cached")
	}
}

func TestCorruptCacheEntryRefetches(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, cache := newTestService(t, repo)

	if err := cache.Put(animeKey(1), []byte("{oops")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if repo.detailCalls != 1 {
		t.Errorf("repo calls = %d, want 1", repo.detailCalls)
	}
}

func TestGenresSortedAndMemoized(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, _ := newTestService(t, repo)
	ctx := context.Background()

	genres, err := svc.Genres(ctx)
	if err != nil {
		t.Fatalf("Genres() error: %v", err)
	}
	var names []string
	for _, g := range genres {
		names = append(names, g.Name)
	}
	want := []string{"Action", "Comedy", "Romance", "Sci-Fi", "Slice of Life"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Genres() = %v, want %v", names, want)
	}

	if _, err := svc.Genres(ctx); err != nil {
		t.Fatal(err)
	}
	if repo.genreCalls != 1 {
		t.Errorf("repo calls = %d, want 1", repo.genreCalls)
	}
	if got := svc.GenreName(24); got != "Sci-Fi" {
		t.Errorf("GenreName(24) = %q", got)
	}
}

func TestGenresSurviveRestartThroughCache(t *testing.T) {
	repo := &fakeRepo{}
	svc, clock, cache := newTestService(t, repo)
	if _, err := svc.Genres(context.Background()); err != nil {
		t.Fatal(err)
	}

	fresh := NewService(repo, cache, Options{GenreTTL: 24 * time.Hour, Now: clock.Now}, nil)
	if _, err := fresh.Genres(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.genreCalls != 1 {
		t.Errorf("repo calls = %d, want 1 (served from cache)", repo.genreCalls)
	}
}

func TestResolveGenres(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeRepo{})
	ctx := context.Background()

	tests := []struct {
		name    string
		in      []string
		want    []int
		wantErr error
	}{
		{"exact any case", []string{"comedy", "ACTION"}, []int{4, 1}, nil},
		{"fuzzy", []string{"slice"}, []int{36}, nil},
		{"duplicates collapse", []string{"Romance", "romance"}, []int{22}, nil},
		{"blanks skipped", []string{" ", "Sci-Fi"}, []int{24}, nil},
		{"unknown", []string{"Mecha"}, nil, domain.ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveGenres(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveGenres() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveGenres() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvalidate(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, _ := newTestService(t, repo)
	ctx := context.Background()

	_, _ = svc.Detail(ctx, 1)
	_, _ = svc.Genres(ctx)
	if err := svc.Invalidate(); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	_, _ = svc.Detail(ctx, 1)
	_, _ = svc.Genres(ctx)

	if repo.detailCalls != 2 || repo.genreCalls != 2 {
		t.Errorf("calls after Invalidate = detail %d genres %d, want 2 and 2", repo.detailCalls, repo.genreCalls)
	}
}

func TestInvalidateDetailsKeepsGenres(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, cache := newTestService(t, repo)
	ctx := context.Background()

	_, _ = svc.Detail(ctx, 1)
	_, _ = svc.Genres(ctx)
	if err := svc.InvalidateDetails(); err != nil {
		t.Fatalf("InvalidateDetails() error: %v", err)
	}

	if _, ok, _ := cache.Get(animeKey(1)); ok {
		t.Error("detail entry survived InvalidateDetails")
	}
	if _, ok, _ := cache.Get(KeyGenres); !ok {
		t.Error("genre entry dropped by InvalidateDetails")
	}

	_, _ = svc.Detail(ctx, 1)
	if repo.detailCalls != 2 {
		t.Errorf("detail calls = %d, want 2", repo.detailCalls)
	}
}

func TestNilCacheDisablesCaching(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, Options{}, nil)

	_, _ = svc.Detail(context.Background(), 1)
	_, _ = svc.Detail(context.Background(), 1)
	if repo.detailCalls != 2 {
		t.Errorf("repo calls = %d, want 2", repo.detailCalls)
	}
	if err := svc.Invalidate(); err != nil {
		t.Errorf("Invalidate() error: %v", err)
	}
}

package watchlater

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

// memKV is an in-memory domain.KeyValue whose writes can be made to fail
type memKV struct {
	data    map[string][]byte
	failPut error
	failGet error
	puts    int
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(key string) ([]byte, bool, error) {
	if m.failGet != nil {
		return nil, false, m.failGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key string, value []byte) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.puts++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

var (
	t0 = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
	t3 = t0.Add(3 * time.Hour)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTest(t *testing.T, kv *memKV) *Store {
	t.Helper()
	return Open(kv, quietLogger(), WithClock(func() time.Time { return t3 }))
}

func ids(entries []domain.SavedEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSortedViewOrder(t *testing.T) {
	s := openTest(t, newMemKV())
	for _, e := range []domain.SavedEntry{
		{ID: 1, Title: "Monster", Weight: 2, SavedAt: t1},
		{ID: 2, Title: "Mushishi", Weight: 5, SavedAt: t2},
		{ID: 3, Title: "Ping Pong", Weight: 5, SavedAt: t3},
	} {
		if err := s.Add(e); err != nil {
			t.Fatalf("Add(%d) error: %v", e.ID, err)
		}
	}

	view := s.SortedView(domain.SortByWeight, domain.SortBySavedAt)
	if got, want := ids(view), []int{3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedView(weight, savedAt) = %v, want %v", got, want)
	}

	again := s.SortedView(domain.SortByWeight, domain.SortBySavedAt)
	if !reflect.DeepEqual(ids(again), ids(view)) {
		t.Errorf("second SortedView() = %v, want %v", ids(again), ids(view))
	}
	if got := ids(s.Entries()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("stored order changed to %v", got)
	}

	byTime := s.SortedView(domain.SortBySavedAt, domain.SortByWeight)
	if got, want := ids(byTime), []int{3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedView(savedAt, weight) = %v, want %v", got, want)
	}
}

func TestSortedViewFallsBackToStoredOrder(t *testing.T) {
	s := openTest(t, newMemKV())
	for _, id := range []int{9, 4, 7} {
		if err := s.Add(domain.SavedEntry{ID: id, Weight: 1, SavedAt: t0}); err != nil {
			t.Fatal(err)
		}
	}
	if got := ids(s.SortedView(domain.SortByWeight, domain.SortBySavedAt)); !reflect.DeepEqual(got, []int{9, 4, 7}) {
		t.Errorf("full ties reordered: %v", got)
	}
}

func TestAddThenRemoveRestoresState(t *testing.T) {
	kv := newMemKV()
	s := openTest(t, kv)
	if err := s.Add(domain.SavedEntry{ID: 1, Title: "Monster", Weight: 2, SavedAt: t1}); err != nil {
		t.Fatal(err)
	}

	before := s.Entries()
	beforeBytes := string(kv.data[StorageKey])

	if err := s.Add(domain.SavedEntry{ID: 2, Title: "Mushishi"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(2); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(s.Entries(), before) {
		t.Errorf("entries = %+v, want %+v", s.Entries(), before)
	}
	if string(kv.data[StorageKey]) != beforeBytes {
		t.Errorf("persisted %s, want %s", kv.data[StorageKey], beforeBytes)
	}
}

func TestAddDeduplicatesLastWriteWins(t *testing.T) {
	s := openTest(t, newMemKV())
	_ = s.Add(domain.SavedEntry{ID: 1, Title: "Old title", Weight: 1, SavedAt: t0})
	_ = s.Add(domain.SavedEntry{ID: 2, Title: "Other", SavedAt: t0})
	_ = s.Add(domain.SavedEntry{ID: 1, Title: "New title", Weight: 4, SavedAt: t2})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	got, ok := s.Get(1)
	if !ok || got.Title != "New title" || got.Weight != 4 || !got.SavedAt.Equal(t2) {
		t.Errorf("Get(1) = %+v, want replaced entry", got)
	}
	if order := ids(s.Entries()); !reflect.DeepEqual(order, []int{1, 2}) {
		t.Errorf("replacement moved entry: %v", order)
	}
}

func TestAddDefaults(t *testing.T) {
	s := openTest(t, newMemKV())
	if err := s.Add(domain.SavedEntry{ID: 5, Weight: -3}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(5)
	if got.Weight != domain.DefaultWeight || !got.SavedAt.Equal(t3) {
		t.Errorf("Get(5) = %+v, want weight 1 stamped at clock", got)
	}

	if err := s.Add(domain.SavedEntry{ID: 0}); !errors.Is(err, domain.ErrInvalidEntry) {
		t.Errorf("Add(id 0) error = %v, want ErrInvalidEntry", err)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	kv := newMemKV()
	s := openTest(t, kv)
	if err := s.Remove(42); err != nil {
		t.Errorf("Remove(absent) error: %v", err)
	}
	if kv.puts != 0 {
		t.Errorf("Remove(absent) wrote storage %d times", kv.puts)
	}
}

func TestReloadReproducesEntries(t *testing.T) {
	kv := newMemKV()
	s := openTest(t, kv)
	want := []domain.SavedEntry{
		{ID: 1, Title: "Monster", ImageURL: "https://cdn/1.jpg", Weight: 2, SavedAt: t1},
		{ID: 2, Title: "Mushishi", ImageURL: "https://cdn/2.jpg", Weight: 5, SavedAt: t2},
	}
	for _, e := range want {
		if err := s.Add(e); err != nil {
			t.Fatal(err)
		}
	}

	reloaded := openTest(t, kv)
	got := reloaded.Entries()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title || got[i].ImageURL != want[i].ImageURL ||
			got[i].Weight != want[i].Weight || !got[i].SavedAt.Equal(want[i].SavedAt) {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOpenFailsOpen(t *testing.T) {
	tests := []struct {
		name string
		kv   *memKV
	}{
		{"missing", newMemKV()},
		{"corrupt json", &memKV{data: map[string][]byte{StorageKey: []byte(`{"not":"a list"`)}}},
		{"wrong shape", &memKV{data: map[string][]byte{StorageKey: []byte(`{"id":1}`)}}},
		{"read error", &memKV{data: map[string][]byte{}, failGet: errors.New("disk gone")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTest(t, tt.kv)
			if s.Len() != 0 {
				t.Errorf("Len() = %d, want empty store", s.Len())
			}
		})
	}
}

func TestOpenRepairsLegacyDuplicates(t *testing.T) {
	kv := &memKV{data: map[string][]byte{StorageKey: []byte(`[
		{"id":1,"title":"first","weight":1,"saved_at":"2024-04-01T12:00:00Z"},
		{"id":0,"title":"bad"},
		{"id":1,"title":"second","weight":0,"saved_at":"2024-04-01T13:00:00Z"}
	]`)}}

	s := openTest(t, kv)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	got, _ := s.Get(1)
	if got.Title != "second" || got.Weight != 1 {
		t.Errorf("Get(1) = %+v, want last duplicate with weight 1", got)
	}
}

func TestStorageFailureLeavesMemoryUnchanged(t *testing.T) {
	kv := newMemKV()
	s := openTest(t, kv)
	if err := s.Add(domain.SavedEntry{ID: 1, Weight: 2}); err != nil {
		t.Fatal(err)
	}

	kv.failPut = errors.New("disk full")
	if err := s.Add(domain.SavedEntry{ID: 2}); err == nil {
		t.Error("Add() succeeded with failing storage")
	}
	if err := s.Remove(1); err == nil {
		t.Error("Remove() succeeded with failing storage")
	}
	if err := s.SetWeight(1, 9); err == nil {
		t.Error("SetWeight() succeeded with failing storage")
	}

	if got := ids(s.Entries()); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("entries = %v, want [1]", got)
	}
	if e, _ := s.Get(1); e.Weight != 2 {
		t.Errorf("weight = %d, want 2", e.Weight)
	}
}

func TestToggle(t *testing.T) {
	s := openTest(t, newMemKV())
	e := domain.SavedEntry{ID: 7, Title: "Mononoke"}

	added, err := s.Toggle(e)
	if err != nil || !added || !s.Contains(7) {
		t.Fatalf("first Toggle() = %v, %v; want added", added, err)
	}
	added, err = s.Toggle(e)
	if err != nil || added || s.Contains(7) {
		t.Fatalf("second Toggle() = %v, %v; want removed", added, err)
	}
}

func TestSetWeight(t *testing.T) {
	s := openTest(t, newMemKV())
	_ = s.Add(domain.SavedEntry{ID: 1})

	if err := s.SetWeight(1, 8); err != nil {
		t.Fatal(err)
	}
	if e, _ := s.Get(1); e.Weight != 8 {
		t.Errorf("weight = %d, want 8", e.Weight)
	}
	if err := s.SetWeight(1, 0); err != nil {
		t.Fatal(err)
	}
	if e, _ := s.Get(1); e.Weight != 1 {
		t.Errorf("weight = %d, want clamped to 1", e.Weight)
	}
	if err := s.SetWeight(99, 3); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SetWeight(absent) error = %v, want ErrNotFound", err)
	}
}

func TestPage(t *testing.T) {
	view := make([]domain.SavedEntry, 7)
	for i := range view {
		view[i].ID = i + 1
	}

	tests := []struct {
		page, size int
		want       []int
	}{
		{1, 3, []int{1, 2, 3}},
		{2, 3, []int{4, 5, 6}},
		{3, 3, []int{7}},
		{4, 3, []int{}},
		{0, 3, []int{}},
		{1, 0, []int{}},
		{1, 10, []int{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tt := range tests {
		if got := ids(Page(view, tt.page, tt.size)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Page(%d, %d) = %v, want %v", tt.page, tt.size, got, tt.want)
		}
	}

	for _, tt := range []struct{ n, size, want int }{{0, 5, 0}, {5, 5, 1}, {6, 5, 2}, {7, 0, 0}} {
		if got := PageCount(tt.n, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	view := []domain.SavedEntry{
		{ID: 1, Title: "Cowboy Bebop"},
		{ID: 2, Title: "Samurai Champloo"},
		{ID: 3, Title: "Space Dandy"},
	}

	if got := Filter(view, "  "); len(got) != 3 || got[0].Entry.ID != 1 {
		t.Errorf("blank Filter() = %+v, want whole view", got)
	}

	got := Filter(view, "bebop")
	if len(got) != 1 || got[0].Entry.ID != 1 {
		t.Fatalf("Filter(bebop) = %+v", got)
	}
	if len(got[0].MatchedIndexes) != 5 {
		t.Errorf("matched indexes = %v, want 5 positions", got[0].MatchedIndexes)
	}

	if got := Filter(view, "zzz"); len(got) != 0 {
		t.Errorf("Filter(zzz) = %+v, want none", got)
	}
}

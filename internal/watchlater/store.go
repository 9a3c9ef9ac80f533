package watchlater

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

// StorageKey is the durable slot holding the serialized list
const StorageKey = "watch-later-storage"

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used to stamp new entries
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the user's watch-later list. Entries are unique by ID and kept in
// insertion order; every mutation is written through to the key-value slot
// before it becomes visible.
type Store struct {
	kv     domain.KeyValue
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries []domain.SavedEntry
}

// Open rehydrates the list from kv. Missing, unreadable or corrupt data
// yields an empty list; the failure is only logged.
func Open(kv domain.KeyValue, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = s.load()
	return s
}

func (s *Store) load() []domain.SavedEntry {
	data, found, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Warn("failed to read watch later list, starting empty", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var stored []domain.SavedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("corrupt watch later list, starting empty", "error", err, "bytes", len(data))
		return nil
	}

	// Older data may carry duplicates or invalid rows; keep the last of each id
	entries := make([]domain.SavedEntry, 0, len(stored))
	for _, e := range stored {
		if e.ID <= 0 {
			continue
		}
		if e.Weight < 1 {
			e.Weight = domain.DefaultWeight
		}
		if i := indexOf(entries, e.ID); i >= 0 {
			entries[i] = e
			continue
		}
		entries = append(entries, e)
	}

	s.logger.Debug("loaded watch later list", "count", len(entries))
	return entries
}

// commitLocked persists next and, only if that succeeds, makes it current
func (s *Store) commitLocked(next []domain.SavedEntry) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode watch later list: %w", err)
	}
	if err := s.kv.Put(StorageKey, data); err != nil {
		s.logger.Error("failed to persist watch later list", "error", err)
		return fmt.Errorf("failed to persist watch later list: %w", err)
	}
	s.entries = next
	return nil
}

// Add saves e. An entry with the same ID is replaced in place.
// A zero SavedAt is stamped with the current time; weights below 1 become 1.
func (s *Store) Add(e domain.SavedEntry) error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id %d", domain.ErrInvalidEntry, e.ID)
	}
	if e.Weight < 1 {
		e.Weight = domain.DefaultWeight
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.entries)
	if i := indexOf(next, e.ID); i >= 0 {
		next[i] = e
	} else {
		next = append(next, e)
	}

	if err := s.commitLocked(next); err != nil {
		return err
	}
	s.logger.Info("saved to watch later", "id", e.ID, "title", e.Title, "weight", e.Weight)
	return nil
}

// Remove deletes the entry with id. Removing an absent id is a no-op.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.entries, id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.entries), i, i+1)
	if err := s.commitLocked(next); err != nil {
		return err
	}
	s.logger.Info("removed from watch later", "id", id)
	return nil
}

// Toggle removes e if saved, otherwise adds it. It reports whether e is now saved.
func (s *Store) Toggle(e domain.SavedEntry) (bool, error) {
	if s.Contains(e.ID) {
		return false, s.Remove(e.ID)
	}
	if err := s.Add(e); err != nil {
		return false, err
	}
	return true, nil
}

// SetWeight changes the priority of a saved entry
func (s *Store) SetWeight(id, weight int) error {
	if weight < 1 {
		weight = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.entries, id)
	if i < 0 {
		return fmt.Errorf("%w: id %d is not saved", domain.ErrNotFound, id)
	}
	if s.entries[i].Weight == weight {
		return nil
	}

	next := slices.Clone(s.entries)
	next[i].Weight = weight
	return s.commitLocked(next)
}

// Contains reports whether id is saved
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.entries, id) >= 0
}

// Get returns the saved entry for id
func (s *Store) Get(id int) (domain.SavedEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.entries, id); i >= 0 {
		return s.entries[i], true
	}
	return domain.SavedEntry{}, false
}

// Len returns the number of saved entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of the list in stored order
func (s *Store) Entries() []domain.SavedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// SortedView returns a new slice ordered by primary descending, then by
// secondary descending, then by stored position. Stored order is untouched.
func (s *Store) SortedView(primary, secondary domain.SortKey) []domain.SavedEntry {
	view := s.Entries()
	slices.SortStableFunc(view, func(a, b domain.SavedEntry) int {
		if c := compareDesc(a, b, primary); c != 0 {
			return c
		}
		return compareDesc(a, b, secondary)
	})
	return view
}

func compareDesc(a, b domain.SavedEntry, key domain.SortKey) int {
	switch key {
	case domain.SortByWeight:
		return cmp.Compare(b.Weight, a.Weight)
	case domain.SortBySavedAt:
		return b.SavedAt.Compare(a.SavedAt)
	default:
		return 0
	}
}

// Page returns the pageNumber-th slice of view (1-based), clamped to its
// bounds. Pages past the end are empty.
func Page(view []domain.SavedEntry, pageNumber, pageSize int) []domain.SavedEntry {
	if pageNumber < 1 || pageSize < 1 {
		return nil
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(view) {
		return nil
	}
	end := min(start+pageSize, len(view))
	return view[start:end]
}

// PageCount returns how many pages of size hold n entries
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

func indexOf(entries []domain.SavedEntry, id int) int {
	return slices.IndexFunc(entries, func(e domain.SavedEntry) bool { return e.ID == id })
}

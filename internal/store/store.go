package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketState = []byte("state")
	bucketCache = []byte("cache")
)

// BoltStore implements domain.Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) the database in dir.
// An empty dir selects memory-only mode.
func Open(dir string) (*BoltStore, error) {
	if dir == "" {
		return &BoltStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dbPath := filepath.Join(dir, "anigo.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketState, bucketCache} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// State returns the durable user-data namespace
func (s *BoltStore) State() domain.KeyValue { return bucketView{s: s, bucket: bucketState} }

// Cache returns the refetchable catalog-data namespace
func (s *BoltStore) Cache() domain.Cache { return bucketView{s: s, bucket: bucketCache} }

// bucketView scopes the generic helpers to one bucket
type bucketView struct {
	s      *BoltStore
	bucket []byte
}

func (v bucketView) Get(key string) ([]byte, bool, error) { return v.s.get(v.bucket, key) }
func (v bucketView) Put(key string, value []byte) error   { return v.s.set(v.bucket, key, value) }
func (v bucketView) Delete(key string) error              { return v.s.delete(v.bucket, key) }
func (v bucketView) DeletePrefix(prefix string) error     { return v.s.deletePrefix(v.bucket, prefix) }
func (v bucketView) Clear() error                         { return v.s.deletePrefix(v.bucket, "") }

// === Generic helpers ===

func (s *BoltStore) get(bucket []byte, key string) ([]byte, bool, error) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return clone(data), true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// bbolt memory is only valid inside the transaction
			data = clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return nil, false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return clone(data), true, nil
}

// set writes through to BoltDB first so the memory cache never holds
// a value that failed to persist.
func (s *BoltStore) set(bucket []byte, key string, value []byte) error {
	data := clone(value)

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) delete(bucket []byte, key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Delete([]byte(key))
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) deletePrefix(bucket []byte, prefix string) error {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Collect first: deleting under an active cursor skips keys
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, clone(k))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

package store

import (
	"bytes"
	"testing"

	"github.com/mmcdole/anigo/internal/domain"
)

// backends opens every driver against a fresh directory
func backends(t *testing.T) map[string]func(dir string) domain.Store {
	t.Helper()
	return map[string]func(dir string) domain.Store{
		DriverBolt: func(dir string) domain.Store {
			s, err := Open(dir)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			return s
		},
		DriverSQLite: func(dir string) domain.Store {
			s, err := OpenSQLite(dir)
			if err != nil {
				t.Fatalf("OpenSQLite() error: %v", err)
			}
			return s
		},
	}
}

func TestKeyValueRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer s.Close()

			kv := s.State()
			if _, found, err := kv.Get("missing"); err != nil || found {
				t.Fatalf("Get(missing) = found %v, err %v; want not found", found, err)
			}

			if err := kv.Put("watch-later-storage", []byte(`[1]`)); err != nil {
				t.Fatalf("Put() error: %v", err)
			}
			if err := kv.Put("watch-later-storage", []byte(`[1,2]`)); err != nil {
				t.Fatalf("Put() overwrite error: %v", err)
			}

			got, found, err := kv.Get("watch-later-storage")
			if err != nil || !found {
				t.Fatalf("Get() = found %v, err %v", found, err)
			}
			if !bytes.Equal(got, []byte(`[1,2]`)) {
				t.Errorf("Get() = %s, want [1,2]", got)
			}

			if err := kv.Delete("watch-later-storage"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, found, _ := kv.Get("watch-later-storage"); found {
				t.Error("key still present after Delete()")
			}
		})
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			s := open(dir)
			if err := s.State().Put("k", []byte("v")); err != nil {
				t.Fatalf("Put() error: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			s = open(dir)
			defer s.Close()
			got, found, err := s.State().Get("k")
			if err != nil || !found || string(got) != "v" {
				t.Errorf("Get() after reopen = %q, %v, %v; want \"v\"", got, found, err)
			}
		})
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer s.Close()

			if err := s.Cache().Put("k", []byte("cache")); err != nil {
				t.Fatal(err)
			}
			if _, found, _ := s.State().Get("k"); found {
				t.Error("cache entry leaked into state namespace")
			}
			if err := s.Cache().Clear(); err != nil {
				t.Fatal(err)
			}
			if err := s.State().Put("k", []byte("state")); err != nil {
				t.Fatal(err)
			}
			if _, found, _ := s.Cache().Get("k"); found {
				t.Error("Clear() left cache entry behind")
			}
		})
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer s.Close()

			c := s.Cache()
			for _, k := range []string{"anime:1", "anime:2", "anime:30", "genres:anime"} {
				if err := c.Put(k, []byte("x")); err != nil {
					t.Fatal(err)
				}
			}

			if err := c.DeletePrefix("anime:"); err != nil {
				t.Fatalf("DeletePrefix() error: %v", err)
			}

			for _, k := range []string{"anime:1", "anime:2", "anime:30"} {
				if _, found, _ := c.Get(k); found {
					t.Errorf("%s survived DeletePrefix", k)
				}
			}
			if _, found, _ := c.Get("genres:anime"); !found {
				t.Error("genres:anime should not match prefix anime:")
			}
		})
	}
}

func TestCacheDeletePrefixMultibyte(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer s.Close()

			c := s.Cache()
			for _, k := range []string{"ōkami:1", "ōkami:2", "ōkamix"} {
				if err := c.Put(k, []byte("x")); err != nil {
					t.Fatal(err)
				}
			}

			if err := c.DeletePrefix("ōkami:"); err != nil {
				t.Fatalf("DeletePrefix() error: %v", err)
			}

			for _, k := range []string{"ōkami:1", "ōkami:2"} {
				if _, found, _ := c.Get(k); found {
					t.Errorf("%s survived DeletePrefix", k)
				}
			}
			if _, found, _ := c.Get("ōkamix"); !found {
				t.Error("ōkamix should not match prefix ōkami:")
			}
		})
	}
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	defer s.Close()

	if err := s.State().Put("k", []byte("v")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, found, _ := s.State().Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get() = %q, %v; want \"v\"", got, found)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.State().Put("k", []byte("abc")); err != nil {
		t.Fatal(err)
	}
	got, _, _ := s.State().Get("k")
	got[0] = 'z'

	again, _, _ := s.State().Get("k")
	if string(again) != "abc" {
		t.Errorf("mutating a Get() result changed the stored value: %q", again)
	}
}

func TestOpenDriver(t *testing.T) {
	for _, driver := range []string{"", "bolt", "SQLite"} {
		s, err := OpenDriver(driver, "")
		if err != nil {
			t.Errorf("OpenDriver(%q) error: %v", driver, err)
			continue
		}
		s.Close()
	}
	if _, err := OpenDriver("postgres", ""); err == nil {
		t.Error("OpenDriver(postgres) should fail")
	}
}

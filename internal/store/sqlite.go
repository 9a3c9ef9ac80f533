package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/anigo/internal/domain"
	_ "modernc.org/sqlite"
)

const (
	namespaceState = "state"
	namespaceCache = "cache"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     BLOB NOT NULL,
	PRIMARY KEY (namespace, key)
);`

// SQLiteStore implements domain.Store on a single SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) anigo.sqlite in dir.
// An empty dir selects an in-memory database.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		dsn = filepath.Join(dir, "anigo.sqlite")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// A second connection to :memory: would see an empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) State() domain.KeyValue { return tableView{db: s.db, namespace: namespaceState} }
func (s *SQLiteStore) Cache() domain.Cache    { return tableView{db: s.db, namespace: namespaceCache} }

// tableView scopes queries to one namespace
type tableView struct {
	db        *sql.DB
	namespace string
}

func (v tableView) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := v.db.QueryRow(
		"SELECT value FROM kv WHERE namespace = ? AND key = ?", v.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (v tableView) Put(key string, value []byte) error {
	_, err := v.db.Exec(
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
		v.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (v tableView) Delete(key string) error {
	if _, err := v.db.Exec("DELETE FROM kv WHERE namespace = ? AND key = ?", v.namespace, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (v tableView) DeletePrefix(prefix string) error {
	// substr avoids LIKE wildcard escaping for keys containing % or _.
	// It counts characters on TEXT, not bytes.
	_, err := v.db.Exec(
		"DELETE FROM kv WHERE namespace = ? AND substr(key, 1, ?) = ?",
		v.namespace, utf8.RuneCountInString(prefix), prefix,
	)
	if err != nil {
		return fmt.Errorf("failed to delete prefix %s: %w", prefix, err)
	}
	return nil
}

func (v tableView) Clear() error {
	if _, err := v.db.Exec("DELETE FROM kv WHERE namespace = ?", v.namespace); err != nil {
		return fmt.Errorf("failed to clear %s: %w", v.namespace, err)
	}
	return nil
}

// Driver names accepted by OpenDriver
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// OpenDriver opens the store backend named by driver
func OpenDriver(driver, dir string) (domain.Store, error) {
	switch strings.ToLower(driver) {
	case "", DriverBolt:
		s, err := Open(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := OpenSQLite(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

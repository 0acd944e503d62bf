// Package cachestore provides the persistent key→value store backing
// incremental rendering, rooted at <root>/.bckt/cache.
package cachestore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// CacheDir is the cache location relative to the site root.
const CacheDir = ".bckt/cache"

const dbFile = "cache.db"

var bucketKV = []byte("kv")

// Entry is one key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// Store is an embedded ordered key→value store. Keys are UTF-8 strings,
// values opaque bytes. The store assumes a single writer per run.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the cache under root. The database survives
// process restarts; committed transactions are crash-safe.
func Open(root string) (*Store, error) {
	dir := filepath.Join(root, filepath.FromSlash(CacheDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	db, err := bolt.Open(filepath.Join(dir, dbFile), 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key, reporting whether it exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketKV).Get([]byte(key))
		if data != nil {
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, value != nil, nil
}

// GetString returns the value under key as a string.
func (s *Store) GetString(key string) (string, bool, error) {
	value, ok, err := s.Get(key)
	return string(value), ok, err
}

// Insert stores value under key, replacing any previous value.
func (s *Store) Insert(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to update cache key %s: %w", key, err)
	}
	return nil
}

// InsertString stores a string value under key.
func (s *Store) InsertString(key, value string) error {
	return s.Insert(key, []byte(value))
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove cache key %s: %w", key, err)
	}
	return nil
}

// ScanPrefix returns every entry whose key starts with prefix, in key
// order.
func (s *Store) ScanPrefix(prefix string) ([]Entry, error) {
	var entries []Entry
	p := []byte(prefix)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketKV).Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			entries = append(entries, Entry{
				Key:   string(k),
				Value: append([]byte(nil), v...),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cache prefix %s: %w", prefix, err)
	}
	return entries, nil
}

// Flush forces the database to durable storage. Every update already
// commits its own transaction; this pins the flush boundary at the end
// of a run.
func (s *Store) Flush() error {
	if err := s.db.Sync(); err != nil {
		return fmt.Errorf("failed to flush cache database: %w", err)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketRecent  = []byte("recent_files")
	bucketSession = []byte("session")
	keyFiles      = []byte("files")
	keyProject    = []byte("last_project")
)

const maxRecentFiles = 10

// Store persists session state (recent files, last project) across runs
type Store struct {
	db *bolt.DB
}

// DefaultStorePath returns the per-user state database location
func DefaultStorePath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "platex", "state.db")
}

// OpenStore opens or creates the state database. The open timeout keeps a
// second instance from blocking forever on the file lock.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 500 * time.Millisecond})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRecent, bucketSession} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file lock
func (s *Store) Close() error {
	return s.db.Close()
}

// AddRecentFile moves path to the front of the recent list
func (s *Store) AddRecentFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecent)
		files := decodeFileList(b.Get(keyFiles))

		out := []string{abs}
		for _, f := range files {
			if f != abs && len(out) < maxRecentFiles {
				out = append(out, f)
			}
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		return b.Put(keyFiles, data)
	})
}

// RecentFiles returns the recent list, most recent first
func (s *Store) RecentFiles() []string {
	var files []string
	s.db.View(func(tx *bolt.Tx) error {
		files = decodeFileList(tx.Bucket(bucketRecent).Get(keyFiles))
		return nil
	})
	return files
}

// SetLastProject records the project directory to reopen next run
func (s *Store) SetLastProject(dir string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyProject, []byte(dir))
	})
}

// LastProject returns the most recently opened project directory
func (s *Store) LastProject() (string, bool) {
	var dir string
	s.db.View(func(tx *bolt.Tx) error {
		dir = string(tx.Bucket(bucketSession).Get(keyProject))
		return nil
	})
	return dir, dir != ""
}

func decodeFileList(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var files []string
	if err := json.Unmarshal(data, &files); err != nil {
		return nil
	}
	return files
}

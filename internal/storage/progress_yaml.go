package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ProgressStore is a small key-value store persisted as a flat YAML map.
// Values are plain text; interpretation is left to the caller.
type ProgressStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenProgressStore loads the store at path. The returned store is always
// usable: a missing file yields an empty store, and an unreadable or corrupt
// file yields an empty store together with the error that caused it.
func OpenProgressStore(path string) (*ProgressStore, error) {
	store := &ProgressStore{path: path, values: make(map[string]string)}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, fmt.Errorf("read progress file: %w", err)
	}

	var values map[string]string
	if err := yaml.Unmarshal(rawData, &values); err != nil {
		return store, fmt.Errorf("parse progress yaml: %w", err)
	}
	for key, value := range values {
		store.values[key] = value
	}
	return store, nil
}

// Get returns the stored value for key.
func (store *ProgressStore) Get(key string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.values[key]
	return value, ok
}

// Set stores value under key and writes the file.
func (store *ProgressStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values[key] = value
	return store.flushLocked()
}

// snapshot returns a copy of every stored entry.
func (store *ProgressStore) snapshot() map[string]string {
	store.mu.Lock()
	defer store.mu.Unlock()
	values := make(map[string]string, len(store.values))
	for key, value := range store.values {
		values[key] = value
	}
	return values
}

// Clear drops all entries and removes the file.
func (store *ProgressStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values = make(map[string]string)
	if err := os.Remove(store.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove progress file: %w", err)
	}
	return nil
}

func (store *ProgressStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create progress directory: %w", err)
	}
	serialized, err := yaml.Marshal(store.values)
	if err != nil {
		return fmt.Errorf("marshal progress yaml: %w", err)
	}
	if err := writeFileAtomic(store.path, serialized); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	return nil
}

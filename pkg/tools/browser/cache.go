package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SelectorStore persists resolved locators keyed by page identity and
// description. Entries are hints, not guarantees: the resolver revalidates
// every entry against the live DOM before use and discards stale ones
// silently. The store is injected into the Resolver so persistence backends
// can be swapped without touching resolution logic.
type SelectorStore interface {
	// Get returns the cached locator for (pageKey, description), if any.
	Get(pageKey, description string) (string, bool)

	// Put stores a locator for (pageKey, description).
	Put(pageKey, description, locator string) error

	// Invalidate removes the entry for (pageKey, description).
	Invalidate(pageKey, description string) error
}

// FileSelectorStore implements SelectorStore using a JSON file.
// The persisted form is {pageKey: {description: locator}}. Entries have no
// expiry; they live until invalidated at use time.
type FileSelectorStore struct {
	path string
	mu   sync.Mutex
	data map[string]map[string]string
}

// NewFileSelectorStore creates a store backed by the JSON file at path,
// loading existing entries. A missing file is not an error.
func NewFileSelectorStore(path string) (*FileSelectorStore, error) {
	store := &FileSelectorStore{
		path: path,
		data: make(map[string]map[string]string),
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *FileSelectorStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read selector cache: %w", err)
	}

	// A corrupt cache file is discarded rather than blocking startup;
	// everything in it is re-derivable.
	var data map[string]map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	if data != nil {
		s.data = data
	}
	return nil
}

// Get returns the cached locator for (pageKey, description), if any.
func (s *FileSelectorStore) Get(pageKey, description string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.data[pageKey]
	if !ok {
		return "", false
	}
	locator, ok := page[description]
	return locator, ok
}

// Put stores a locator and persists the cache.
func (s *FileSelectorStore) Put(pageKey, description, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.data[pageKey]
	if !ok {
		page = make(map[string]string)
		s.data[pageKey] = page
	}
	page[description] = locator

	return s.save()
}

// Invalidate removes an entry and persists the cache. Removing a missing
// entry is not an error.
func (s *FileSelectorStore) Invalidate(pageKey, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.data[pageKey]
	if !ok {
		return nil
	}
	if _, ok := page[description]; !ok {
		return nil
	}
	delete(page, description)
	if len(page) == 0 {
		delete(s.data, pageKey)
	}

	return s.save()
}

// save writes the cache atomically. Caller holds the lock.
func (s *FileSelectorStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode selector cache: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0600); err != nil {
		return fmt.Errorf("failed to write selector cache: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename selector cache: %w", err)
	}
	return nil
}

// MemorySelectorStore is an in-memory SelectorStore, useful for tests and
// for running without persistence.
type MemorySelectorStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

// NewMemorySelectorStore creates an empty in-memory store.
func NewMemorySelectorStore() *MemorySelectorStore {
	return &MemorySelectorStore{data: make(map[string]map[string]string)}
}

// Get returns the cached locator for (pageKey, description), if any.
func (s *MemorySelectorStore) Get(pageKey, description string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.data[pageKey]
	if !ok {
		return "", false
	}
	locator, ok := page[description]
	return locator, ok
}

// Put stores a locator.
func (s *MemorySelectorStore) Put(pageKey, description, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.data[pageKey]
	if !ok {
		page = make(map[string]string)
		s.data[pageKey] = page
	}
	page[description] = locator
	return nil
}

// Invalidate removes an entry.
func (s *MemorySelectorStore) Invalidate(pageKey, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page, ok := s.data[pageKey]; ok {
		delete(page, description)
	}
	return nil
}

package runs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Entry records the last time an action was let through. Times are wall
// clock readings since they have to survive the process.
type Entry struct {
	LastRun    time.Time `json:"last_run"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
}

type Store struct {
	path    string
	entries map[string]*Entry
	mu      sync.RWMutex
}

func NewStore(path string) *Store {
	return &Store{
		path:    path,
		entries: make(map[string]*Entry),
	}
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[string]*Entry)
	if err = json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	s.entries = entries

	return nil
}

func (s *Store) Get(name string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[name]
	return entry, ok
}

func (s *Store) Set(name string, entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = entry
}

func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[name]
	delete(s.entries, name)
	return ok
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*Entry)
}

// Names returns the recorded action names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err = os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", tmpPath, err)
	}

	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// Package state persists which nodes were expanded per browsed root, so
// `ftree browse` and `ftree show --saved` reopen a tree the way it was left.
package state

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/raphi011/ftree/internal/storage"
)

// Entry is the saved expansion of one root.
type Entry struct {
	Root        string    `json:"root"`
	Expanded    []string  `json:"expanded"`
	LastAccess  time.Time `json:"last_access"`
	AccessCount int       `json:"access_count"`
}

// State holds entries for all known roots.
type State struct {
	Entries []Entry `json:"entries"`
}

// DefaultPath returns ~/.ftree/state.json.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ftree", "state.json")
}

// Load reads the state file. A missing or corrupted file yields an empty
// state.
func Load(path string) (*State, error) {
	var s State
	if err := storage.LoadJSON(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{}, nil
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return &State{}, nil
	}
	return &s, nil
}

// Save writes the state atomically.
func (s *State) Save(path string) error {
	return storage.SaveJSON(path, s)
}

// Update loads the state, applies fn and saves it, holding an exclusive
// lock so concurrent ftree processes don't lose each other's writes.
func Update(path string, fn func(*State) error) error {
	return storage.WithLock(path, func() error {
		s, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		return s.Save(path)
	})
}

// Get returns the entry for root.
func (s *State) Get(root string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Root == root {
			return e, true
		}
	}
	return Entry{}, false
}

// Set stores the expanded keys of root and records an access.
func (s *State) Set(root string, expanded []string) {
	now := time.Now()
	for i := range s.Entries {
		if s.Entries[i].Root == root {
			s.Entries[i].Expanded = expanded
			s.Entries[i].LastAccess = now
			s.Entries[i].AccessCount++
			return
		}
	}
	s.Entries = append(s.Entries, Entry{Root: root, Expanded: expanded, LastAccess: now, AccessCount: 1})
}

// Remove deletes the entry for root. Returns false if there was none.
func (s *State) Remove(root string) bool {
	for i, e := range s.Entries {
		if e.Root == root {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// MostRecent returns the most recently accessed root, or "" if none.
func (s *State) MostRecent() string {
	var best Entry
	for _, e := range s.Entries {
		if e.LastAccess.After(best.LastAccess) {
			best = e
		}
	}
	return best.Root
}

// Sorted returns the entries ordered by last access, newest first.
func (s *State) Sorted() []Entry {
	out := make([]Entry, len(s.Entries))
	copy(out, s.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAccess.After(out[j].LastAccess)
	})
	return out
}

// RemoveStale drops entries whose root no longer exists on disk and
// returns the removed roots.
func (s *State) RemoveStale() []string {
	var removed []string
	kept := s.Entries[:0]
	for _, e := range s.Entries {
		if _, err := os.Stat(e.Root); errors.Is(err, os.ErrNotExist) {
			removed = append(removed, e.Root)
			continue
		}
		kept = append(kept, e)
	}
	s.Entries = kept
	return removed
}

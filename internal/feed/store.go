// Package feed holds the client's in-memory copy of the notification feed
// and the pure projections derived from it.
package feed

import (
	gosync "sync"
	"time"

	"github.com/nhle/insyd/internal/model"
)

// Store is the single mutable cell holding the current feed snapshot.
// Writers are last-writer-wins; there is no merge.
type Store struct {
	mu        gosync.RWMutex
	items     []model.Notification
	loading   bool
	version   uint64
	updatedAt time.Time
}

// NewStore returns an empty store in the loading state.
func NewStore() *Store {
	return &Store{loading: true}
}

// Replace swaps the whole feed for items, discarding the previous snapshot.
// A nil slice is stored as an empty feed.
func (s *Store) Replace(items []model.Notification) {
	cp := make([]model.Notification, len(items))
	copy(cp, items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cp
	s.version++
	s.updatedAt = time.Now()
}

// Remove drops the entry with the given id. It reports whether an entry
// was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.items {
		if n.ID != id {
			continue
		}
		next := make([]model.Notification, 0, len(s.items)-1)
		next = append(next, s.items[:i]...)
		next = append(next, s.items[i+1:]...)
		s.items = next
		s.version++
		return true
	}
	return false
}

// Snapshot returns a copy of the current feed in server order.
func (s *Store) Snapshot() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of notifications in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Loading reports whether no fetch has completed yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// DoneLoading clears the loading flag. It is called after every fetch,
// successful or not.
func (s *Store) DoneLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Version increases on every mutation; consumers use it to skip redundant
// re-renders.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// UpdatedAt returns when the feed was last replaced by a fetch.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

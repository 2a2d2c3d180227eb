package feed

import (
	"sort"
	gosync "sync"
)

// Tracker is the set of notification ids with a delete request in flight.
// Each row checks its own membership, so concurrent deletes on different
// rows are tracked independently.
type Tracker struct {
	mu  gosync.RWMutex
	ids map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ids: make(map[string]struct{})}
}

// Begin marks id as in flight. It returns false if id was already tracked.
func (t *Tracker) Begin(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.ids[id]; ok {
		return false
	}
	t.ids[id] = struct{}{}
	return true
}

// End clears the in-flight mark for id.
func (t *Tracker) End(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, id)
}

// Has reports whether a delete for id is in flight.
func (t *Tracker) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

// IDs returns the tracked ids in sorted order.
func (t *Tracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

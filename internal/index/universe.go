package index

import (
	"sort"
	"sync"
)

// Universe is the set of all document IDs ever indexed. It bounds the
// complement computation performed by NOT: every docID appearing in any
// posting list is a member.
type Universe struct {
	mu     sync.RWMutex
	ids    map[string]struct{}
	sorted PostingList
	dirty  bool
}

// NewUniverse creates an empty Universe.
func NewUniverse() *Universe {
	return &Universe{ids: make(map[string]struct{})}
}

// Register adds docID to the universe. Registering the same ID twice is a
// no-op.
func (u *Universe) Register(docID string) {
	if docID == "" {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.ids[docID]; ok {
		return
	}
	u.ids[docID] = struct{}{}
	u.dirty = true
}

// All returns every known document ID, sorted ascending. The sorted slice is
// cached between calls and rebuilt only after new registrations.
func (u *Universe) All() PostingList {
	u.mu.RLock()
	if !u.dirty {
		sorted := u.sorted
		u.mu.RUnlock()
		return sorted
	}
	u.mu.RUnlock()

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.dirty {
		sorted := make(PostingList, 0, len(u.ids))
		for id := range u.ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		u.sorted = sorted
		u.dirty = false
	}
	return u.sorted
}

// Contains reports whether docID is a known document.
func (u *Universe) Contains(docID string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.ids[docID]
	return ok
}

// Size returns the number of documents in the universe.
func (u *Universe) Size() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.ids)
}

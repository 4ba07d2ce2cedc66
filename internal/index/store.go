// Package index implements the in-memory inverted index at the core of the
// boolean retrieval engine: a posting-list store mapping terms to ordered
// document-ID sets, plus the document universe used to evaluate negation.
//
// The store follows a build-then-query lifecycle: a single writer populates
// it via Add, Seal freezes it, and from then on it is read-only and safe for
// concurrent lookups.
package index

import (
	"sort"
	"sync"
)

// Store maps each term to its posting list and tracks the document universe.
type Store struct {
	mu       sync.RWMutex
	building map[string]map[string]struct{}
	postings map[string]PostingList
	universe *Universe
	sealed   bool
}

// NewStore creates an empty, unsealed Store.
func NewStore() *Store {
	return &Store{
		building: make(map[string]map[string]struct{}),
		universe: NewUniverse(),
	}
}

// Add inserts docID into the posting list for term, creating the list if
// absent, and registers docID in the document universe. Adding the same
// (term, docID) pair twice leaves the list unchanged. Calls after Seal are
// ignored.
func (s *Store) Add(term, docID string) {
	if term == "" || docID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	docs, ok := s.building[term]
	if !ok {
		docs = make(map[string]struct{})
		s.building[term] = docs
	}
	docs[docID] = struct{}{}
	s.universe.Register(docID)
}

// RegisterDoc adds docID to the document universe without touching any
// posting list. The build phase uses it so documents whose text normalises
// to zero terms still count as members of the collection (and so appear in
// NOT complements). Calls after Seal are ignored.
func (s *Store) RegisterDoc(docID string) {
	if docID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.universe.Register(docID)
}

// Seal freezes the store: posting lists are materialised as sorted slices
// and all further Adds are ignored. Seal is idempotent.
func (s *Store) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.postings = make(map[string]PostingList, len(s.building))
	for term, docs := range s.building {
		list := make(PostingList, 0, len(docs))
		for docID := range docs {
			list = append(list, docID)
		}
		sort.Strings(list)
		s.postings[term] = list
	}
	s.building = nil
	s.sealed = true
}

// Lookup returns the posting list for term, or an empty list if the term is
// unknown. An unknown term is not an error. The returned slice must not be
// mutated by callers.
func (s *Store) Lookup(term string) PostingList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sealed {
		if list, ok := s.postings[term]; ok {
			return list
		}
		return PostingList{}
	}
	// Pre-seal lookups materialise a sorted copy on demand.
	docs, ok := s.building[term]
	if !ok {
		return PostingList{}
	}
	list := make(PostingList, 0, len(docs))
	for docID := range docs {
		list = append(list, docID)
	}
	sort.Strings(list)
	return list
}

// AllDocs returns the full document universe as a sorted posting list.
func (s *Store) AllDocs() PostingList {
	return s.universe.All()
}

// Universe returns the document universe backing the store.
func (s *Store) Universe() *Universe {
	return s.universe
}

// Terms returns the number of unique terms in the index.
func (s *Store) Terms() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sealed {
		return len(s.postings)
	}
	return len(s.building)
}

// Sealed reports whether the store has been frozen for querying.
func (s *Store) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

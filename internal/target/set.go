package target

import (
	"sort"
	"sync"
)

// Set is the operator's selected-target IDs. Guarded because the capture
// loop and the selection prompt touch it from different goroutines.
type Set struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

// NewSet creates an empty target set.
func NewSet() *Set {
	return &Set{ids: make(map[int]struct{})}
}

// Add inserts an ID.
func (s *Set) Add(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Contains reports whether id is selected.
func (s *Set) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Remove deletes an ID and reports whether it was present.
func (s *Set) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	delete(s.ids, id)
	return ok
}

// IDs returns the selected IDs in ascending order.
func (s *Set) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of selected IDs.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Reset empties the set.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int]struct{})
}

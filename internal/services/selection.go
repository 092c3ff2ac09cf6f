package services

import (
	"sync"

	"mapcluster/internal/domain/entities"
)

// SelectionTracker holds the single pinned annotation. A pinned annotation is
// kept out of normal grouping and always displayed as its own cluster.
//
// Pinning a new annotation replaces the previous pin.
type SelectionTracker struct {
	mu     sync.RWMutex
	pinned string
}

func NewSelectionTracker() *SelectionTracker {
	return &SelectionTracker{}
}

// Select pins id and returns the ID it replaced, if any.
func (s *SelectionTracker) Select(id string) (previous string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, s.pinned = s.pinned, id
	return previous
}

// Deselect unpins id. It reports false when id was not pinned.
func (s *SelectionTracker) Deselect(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinned == "" || s.pinned != id {
		return false
	}
	s.pinned = ""
	return true
}

func (s *SelectionTracker) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = ""
}

func (s *SelectionTracker) Pinned() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pinned, s.pinned != ""
}

// IsAnySelected reports whether the pinned annotation is among candidates.
func (s *SelectionTracker) IsAnySelected(candidates []entities.Annotation) bool {
	pinned, ok := s.Pinned()
	if !ok {
		return false
	}
	for _, c := range candidates {
		if c.ID == pinned {
			return true
		}
	}
	return false
}

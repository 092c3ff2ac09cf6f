package services

import (
	"testing"

	"mapcluster/internal/domain/entities"
)

func TestSelectionTracker(t *testing.T) {
	s := NewSelectionTracker()

	if _, ok := s.Pinned(); ok {
		t.Fatal("Expected nothing pinned")
	}

	if prev := s.Select("a"); prev != "" {
		t.Errorf("Expected no previous pin, got %q", prev)
	}
	if prev := s.Select("b"); prev != "a" {
		t.Errorf("Pinning b should replace a, got previous %q", prev)
	}

	candidates := []entities.Annotation{entities.NewAnnotation("a", 0, 0), entities.NewAnnotation("b", 0, 0)}
	if !s.IsAnySelected(candidates) {
		t.Error("Expected b to be found among candidates")
	}
	if s.IsAnySelected(candidates[:1]) {
		t.Error("a is no longer pinned")
	}

	if s.Deselect("a") {
		t.Error("Deselecting an unpinned ID should report false")
	}
	if !s.Deselect("b") {
		t.Error("Deselecting the pinned ID should report true")
	}
	if s.IsAnySelected(candidates) {
		t.Error("Expected nothing selected after deselect")
	}

	s.Select("c")
	s.DeselectAll()
	if _, ok := s.Pinned(); ok {
		t.Error("Expected DeselectAll to clear the pin")
	}
}

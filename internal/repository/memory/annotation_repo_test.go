package memory

import (
	"context"
	"testing"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/repository"
)

var _ repository.AnnotationRepository = (*AnnotationRepository)(nil)

func TestAnnotationRepository_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnotationRepository()

	if err := repo.Upsert(ctx, []entities.Annotation{
		entities.NewAnnotation("a", 1, 1),
		entities.NewAnnotation("b", 2, 2),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	before, _ := repo.Snapshot(ctx)
	again, _ := repo.Snapshot(ctx)
	if before != again {
		t.Error("Expected the cached snapshot to be reused when nothing changed")
	}

	if _, err := repo.Remove(ctx, []string{"a"}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	after, _ := repo.Snapshot(ctx)

	if before.Len() != 2 {
		t.Errorf("Earlier snapshot changed: expected 2, got %d", before.Len())
	}
	if after.Len() != 1 {
		t.Errorf("Expected 1 annotation after removal, got %d", after.Len())
	}
}

func TestAnnotationRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnotationRepository()

	_ = repo.Upsert(ctx, []entities.Annotation{entities.NewAnnotation("a", 1, 1)})
	_ = repo.Upsert(ctx, []entities.Annotation{entities.NewAnnotation("a", 5, 5)})

	got, err := repo.Get(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("Expected annotation, got %v, %v", got, err)
	}
	if got.Coordinate.Latitude != 5 {
		t.Errorf("Expected replaced coordinate, got %+v", got.Coordinate)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Expected 1 annotation, got %d", n)
	}
}

func TestAnnotationRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnotationRepository()
	_ = repo.Upsert(ctx, []entities.Annotation{entities.NewAnnotation("a", 1, 1)})

	removed, _ := repo.Remove(ctx, []string{"a", "unknown"})
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}

	got, err := repo.Get(ctx, "a")
	if got != nil || err != nil {
		t.Errorf("Expected (nil, nil) for removed annotation, got %v, %v", got, err)
	}

	_ = repo.Upsert(ctx, []entities.Annotation{entities.NewAnnotation("b", 1, 1)})
	_ = repo.RemoveAll(ctx)
	if snap, _ := repo.Snapshot(ctx); snap.Len() != 0 {
		t.Errorf("Expected empty snapshot after RemoveAll, got %d", snap.Len())
	}
}

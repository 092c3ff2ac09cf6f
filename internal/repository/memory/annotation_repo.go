package memory

import (
	"context"
	"sync"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/geo"
)

// AnnotationRepository stores annotations in a map and publishes immutable
// R-tree snapshots of them. It maintains two data structures:
//   - annotations: ID → Annotation (the source of truth)
//   - snapshot: the last published *geo.AnnotationIndex, or nil when a write
//     has happened since
//
// The snapshot is rebuilt lazily on the next Snapshot call, so a burst of
// writes between clustering passes pays for one bulk load, not one per write.
type AnnotationRepository struct {
	mu          sync.RWMutex
	annotations map[string]entities.Annotation
	snapshot    *geo.AnnotationIndex
}

func NewAnnotationRepository() *AnnotationRepository {
	return &AnnotationRepository{
		annotations: make(map[string]entities.Annotation),
	}
}

// Upsert stores the batch. Within a batch, later entries win.
func (r *AnnotationRepository) Upsert(ctx context.Context, annotations []entities.Annotation) error {
	if len(annotations) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range annotations {
		r.annotations[a.ID] = a
	}
	r.snapshot = nil
	return nil
}

func (r *AnnotationRepository) Remove(ctx context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, exists := r.annotations[id]; exists {
			delete(r.annotations, id)
			removed++
		}
	}
	if removed > 0 {
		r.snapshot = nil
	}
	return removed, nil
}

func (r *AnnotationRepository) RemoveAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.annotations = make(map[string]entities.Annotation)
	r.snapshot = nil
	return nil
}

// Get returns a copy of the stored annotation, or (nil, nil) if the ID is
// unknown.
func (r *AnnotationRepository) Get(ctx context.Context, id string) (*entities.Annotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.annotations[id]
	if !exists {
		return nil, nil
	}
	return &a, nil
}

func (r *AnnotationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.annotations), nil
}

// Snapshot returns the current index, building it if a write invalidated the
// previous one.
//
// Go Learning Note — Double-Checked Locking:
// The fast path takes only the read lock. If the snapshot is missing we
// upgrade to the write lock and check again, because another goroutine may
// have rebuilt it between the RUnlock and the Lock.
func (r *AnnotationRepository) Snapshot(ctx context.Context) (*geo.AnnotationIndex, error) {
	r.mu.RLock()
	snap := r.snapshot
	r.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot == nil {
		all := make([]entities.Annotation, 0, len(r.annotations))
		for _, a := range r.annotations {
			all = append(all, a)
		}
		r.snapshot = geo.NewAnnotationIndex(all)
	}
	return r.snapshot, nil
}

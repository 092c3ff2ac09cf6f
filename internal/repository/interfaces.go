package repository

import (
	"context"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/geo"
)

// AnnotationRepository holds the full set of annotations a controller
// clusters. Batches are applied atomically: either every annotation in the
// batch is stored or none is.
type AnnotationRepository interface {
	// Upsert stores every annotation, replacing any with the same ID.
	Upsert(ctx context.Context, annotations []entities.Annotation) error
	// Remove deletes the annotations with the given IDs and reports how many
	// were present. Unknown IDs are ignored.
	Remove(ctx context.Context, ids []string) (int, error)
	RemoveAll(ctx context.Context) error
	// Get returns (nil, nil) when no annotation has the ID.
	Get(ctx context.Context, id string) (*entities.Annotation, error)
	Count(ctx context.Context) (int, error)
	// Snapshot returns an immutable index of the current contents. Later
	// writes never affect a snapshot already returned.
	Snapshot(ctx context.Context) (*geo.AnnotationIndex, error)
}

package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"mapcluster/internal/domain/entities"
)

// R-tree branching factors, the same defaults the rtreego README suggests
// for small two-dimensional point sets.
const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50

	// pointTolerance is the half-width (in degrees) of the box each point is
	// stored as. rtreego cannot store zero-area rectangles.
	pointTolerance = 1e-9
)

// indexedAnnotation wraps an annotation to satisfy rtreego.Spatial.
type indexedAnnotation struct {
	annotation entities.Annotation
	rect       rtreego.Rect
}

// Bounds returns the rectangle the annotation is stored under.
func (a *indexedAnnotation) Bounds() rtreego.Rect {
	return a.rect
}

// AnnotationIndex is an immutable snapshot of a set of annotations, indexed
// for region queries by an R-tree.
//
// Go Learning Note — Immutable Snapshots vs sync.RWMutex:
// A mutable index shared between goroutines needs a lock around every read
// and write. The clustering pass runs on a background goroutine while the
// controller keeps accepting add/remove calls, so instead of locking we never
// mutate a published index at all: every change builds a new one (see the
// memory repository). A background goroutine holding a *AnnotationIndex can
// then read it freely for as long as it likes.
type AnnotationIndex struct {
	tree  *rtreego.Rtree
	byID  map[string]*indexedAnnotation
	order []string // IDs sorted ascending
}

// NewAnnotationIndex bulk-loads annotations into a new index. Later entries
// win when IDs repeat.
func NewAnnotationIndex(annotations []entities.Annotation) *AnnotationIndex {
	byID := make(map[string]*indexedAnnotation, len(annotations))
	for _, a := range annotations {
		byID[a.ID] = &indexedAnnotation{
			annotation: a,
			rect:       rtreego.Point{a.Coordinate.Longitude, a.Coordinate.Latitude}.ToRect(pointTolerance),
		}
	}

	order := make([]string, 0, len(byID))
	objs := make([]rtreego.Spatial, 0, len(byID))
	for id := range byID {
		order = append(order, id)
	}
	sort.Strings(order)
	for _, id := range order {
		objs = append(objs, byID[id])
	}

	return &AnnotationIndex{
		tree:  rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, objs...),
		byID:  byID,
		order: order,
	}
}

// Len returns the number of annotations in the index.
func (ix *AnnotationIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.order)
}

// Get looks up an annotation by ID.
func (ix *AnnotationIndex) Get(id string) (entities.Annotation, bool) {
	if ix == nil {
		return entities.Annotation{}, false
	}
	item, ok := ix.byID[id]
	if !ok {
		return entities.Annotation{}, false
	}
	return item.annotation, true
}

// All returns every annotation ordered by ID.
func (ix *AnnotationIndex) All() []entities.Annotation {
	if ix == nil {
		return nil
	}
	out := make([]entities.Annotation, len(ix.order))
	for i, id := range ix.order {
		out[i] = ix.byID[id].annotation
	}
	return out
}

// Within returns the annotations inside region (edges inclusive), ordered by
// ID.
//
// Strategy: Coarse filter → Fine filter
//  1. Coarse: an R-tree intersect search with the region's bounding box.
//  2. Fine: exact containment, since stored points are tiny boxes and may
//     touch the search box from just outside.
func (ix *AnnotationIndex) Within(region entities.Region) []entities.Annotation {
	if ix.Len() == 0 {
		return nil
	}

	dLong := region.Span.LongitudeDelta
	dLat := region.Span.LatitudeDelta
	if dLong < pointTolerance {
		dLong = pointTolerance
	}
	if dLat < pointTolerance {
		dLat = pointTolerance
	}
	bb, err := rtreego.NewRect(rtreego.Point{region.MinLongitude(), region.MinLatitude()}, []float64{dLong, dLat})
	if err != nil {
		return nil
	}

	hits := ix.tree.SearchIntersect(bb)
	out := make([]entities.Annotation, 0, len(hits))
	for _, h := range hits {
		a := h.(*indexedAnnotation).annotation
		if region.Contains(a.Coordinate) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

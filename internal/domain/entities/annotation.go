// Package entities defines the core domain models of the clustering engine:
// coordinates, regions, the source annotations callers hand in, and the
// cluster annotations the engine derives from them. These types have no
// dependencies on the grid, the scheduler, or any presentation code.
//
// Go Learning Note — "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level, which keeps the engine's building
// blocks private while the controller in internal/services stays the one
// public-facing entry point for the binaries in cmd/.
package entities

// Annotation is a source point on the map. Identity is the ID: two
// Annotation values with the same ID are the same annotation, whatever their
// payload. The engine never mutates an Annotation.
//
// Go Learning Note — interface{} / any Payload:
// Payload is typed as `any` so callers can attach their own data (a store
// record, a photo reference, ...) without the engine knowing about it. The
// engine copies the Annotation value around but never looks inside Payload.
type Annotation struct {
	ID         string     `json:"id"`
	Coordinate Coordinate `json:"coordinate"`
	Title      string     `json:"title,omitempty"`
	Payload    any        `json:"payload,omitempty"`
}

// NewAnnotation creates an Annotation at the given position.
func NewAnnotation(id string, lat, long float64) Annotation {
	return Annotation{
		ID:         id,
		Coordinate: NewCoordinate(lat, long),
	}
}

// Equal compares by identity only.
func (a Annotation) Equal(other Annotation) bool {
	return a.ID == other.ID
}

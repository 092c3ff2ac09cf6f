package services

import "errors"

var (
	// ErrUnknownAnnotation is returned when an operation names an annotation
	// that was never added, or the ID of a displayed cluster.
	ErrUnknownAnnotation = errors.New("services: unknown annotation")
	// ErrInvalidAnnotation rejects a whole add batch when any member has an
	// empty ID or an invalid coordinate.
	ErrInvalidAnnotation = errors.New("services: invalid annotation")
	// ErrInvalidRegion rejects an invalid center or a non-positive span.
	ErrInvalidRegion    = errors.New("services: invalid region")
	ErrControllerClosed = errors.New("services: controller closed")

	// errStaleComputation marks a result that arrived after its pass was
	// invalidated. It is logged and never returned.
	errStaleComputation = errors.New("services: stale computation")
)

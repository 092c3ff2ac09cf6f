package services

import (
	"github.com/paulmach/orb/geojson"

	"mapcluster/internal/domain/entities"
)

// MapSurface is the map the controller clusters for. The controller reads
// the viewport once at construction and then follows ViewportChanges.
type MapSurface interface {
	Viewport() entities.Viewport
	// ViewportChanges delivers every viewport the map settles on. The
	// controller stops reading when it is closed.
	ViewportChanges() <-chan entities.Viewport
	SetCenter(center entities.Coordinate, animated bool)
	SetRegion(region entities.Region, animated bool)
}

// Diff is one clustering pass as the presenter sees it.
//
//   - Added clusters are new and should animate in.
//   - Updated clusters kept their ID; coordinate, title and members may have
//     changed.
//   - Removed clusters are about to animate out. They stay on screen until
//     the presenter receives them in RemoveClusters.
type Diff struct {
	Added   []entities.ClusterAnnotation `json:"added"`
	Updated []entities.ClusterAnnotation `json:"updated"`
	Removed []entities.ClusterAnnotation `json:"removed"`
}

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// Presenter displays clusters. All methods are called from the controller's
// delivery goroutine, one at a time, never while the controller holds its
// lock, so they may call back into the controller.
type Presenter interface {
	ApplyDiff(diff Diff)
	// RemoveClusters is called once the exit animation of clusters
	// previously reported in Diff.Removed has finished.
	RemoveClusters(clusters []entities.ClusterAnnotation)
	SelectCluster(cluster entities.ClusterAnnotation)
	DeselectCluster(cluster entities.ClusterAnnotation)
}

// GridDrawer is implemented by presenters that can draw the clustering grid.
// The controller calls DrawGrid after every pass while debugging is enabled,
// and with nil to clear the grid when debugging is turned off.
type GridDrawer interface {
	DrawGrid(grid *geojson.FeatureCollection)
}

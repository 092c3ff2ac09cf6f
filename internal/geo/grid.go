// Package geo implements the spatial grid used for clustering, an immutable
// R-tree snapshot of the retained annotations, and a GeoJSON rendering of the
// grid for debugging.
//
// Go Learning Note — Why a screen-space grid?
// Clustering merges annotations that would overlap on screen. Overlap is a
// property of screen points, not of degrees: two pins 0.01° apart overlap
// when zoomed out and are far apart when zoomed in. The grid therefore
// converts a cell size given in screen points into degrees with the map's
// current points-per-degree scale, and recomputes cell identities every pass.
//
// Cell boundaries are aligned to a fixed origin at (0°, 0°):
//
//	X = floor(longitude × scale / cellSize)
//	Y = floor(latitude  × scale / cellSize)
//
// so the same coordinate always lands in the same cell at a given scale, and
// cells tile the plane without gaps or overlap.
package geo

import (
	"fmt"
	"math"

	"mapcluster/internal/domain/entities"
)

// maxCoveringCells caps CellsCovering so a degenerate scale cannot allocate
// an unbounded slice.
const maxCoveringCells = 1 << 22

// Cell identifies one square of the clustering grid at a particular scale.
type Cell struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Less orders cells row-major: south to north, then west to east.
func (c Cell) Less(other Cell) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// cellDegrees converts a cell size in screen points into degrees. It returns
// false when either input cannot produce a usable grid.
func cellDegrees(cellSize, scale float64) (float64, bool) {
	if !(cellSize > 0) || !(scale > 0) || math.IsInf(cellSize, 0) || math.IsInf(scale, 0) {
		return 0, false
	}
	deg := cellSize / scale
	if !(deg > 0) {
		return 0, false
	}
	return deg, true
}

// CellFor returns the cell owning coordinate c. The caller guarantees that c
// is valid and that cellSize and scale are positive.
func CellFor(c entities.Coordinate, cellSize, scale float64) Cell {
	deg, ok := cellDegrees(cellSize, scale)
	if !ok {
		return Cell{}
	}
	return Cell{
		X: int64(math.Floor(c.Longitude / deg)),
		Y: int64(math.Floor(c.Latitude / deg)),
	}
}

// CellsCovering returns every cell that intersects region, in row-major
// order. It returns nil when cellSize or scale is not positive, or when the
// region would need more than maxCoveringCells cells.
func CellsCovering(region entities.Region, cellSize, scale float64) []Cell {
	deg, ok := cellDegrees(cellSize, scale)
	if !ok {
		return nil
	}

	fMinX := math.Floor(region.MinLongitude() / deg)
	fMaxX := math.Floor(region.MaxLongitude() / deg)
	fMinY := math.Floor(region.MinLatitude() / deg)
	fMaxY := math.Floor(region.MaxLatitude() / deg)

	// Bound the extent before converting, so an extreme scale can neither
	// overflow int64 nor wrap the product below the cap.
	fCols, fRows := fMaxX-fMinX+1, fMaxY-fMinY+1
	if !(fCols >= 1) || !(fRows >= 1) || fCols > maxCoveringCells || fRows > maxCoveringCells {
		return nil
	}
	minX, maxX := int64(fMinX), int64(fMaxX)
	minY, maxY := int64(fMinY), int64(fMaxY)

	cols, rows := maxX-minX+1, maxY-minY+1
	if cols <= 0 || rows <= 0 || cols > maxCoveringCells/rows {
		return nil
	}

	cells := make([]Cell, 0, cols*rows)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}

// CellBounds returns the geographic area covered by cell.
func CellBounds(cell Cell, cellSize, scale float64) entities.Region {
	deg, ok := cellDegrees(cellSize, scale)
	if !ok {
		return entities.Region{}
	}
	minLong := float64(cell.X) * deg
	minLat := float64(cell.Y) * deg
	return entities.RegionFromBounds(minLat, minLong, minLat+deg, minLong+deg)
}

// InCell reports whether c falls in cell at the given scale.
func InCell(c entities.Coordinate, cell Cell, cellSize, scale float64) bool {
	return CellFor(c, cellSize, scale) == cell
}

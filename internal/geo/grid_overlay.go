package geo

import (
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb/geojson"

	"mapcluster/internal/domain/entities"
)

// overlayGeohashPrecision is enough characters to tell neighbouring cells
// apart at street-level zoom.
const overlayGeohashPrecision = 8

// GridOverlay renders the cells covering region as a GeoJSON feature
// collection, one polygon per cell. It is purely diagnostic: drawing it has
// no effect on clustering results.
//
// Each feature carries the cell's x/y and the geohash of its center, which
// makes it easy to cross-reference a cell with other geohash-keyed tooling.
func GridOverlay(region entities.Region, cellSize, scale float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, cell := range CellsCovering(region, cellSize, scale) {
		bounds := CellBounds(cell, cellSize, scale)
		f := geojson.NewFeature(bounds.Bound().ToPolygon())
		f.Properties["x"] = cell.X
		f.Properties["y"] = cell.Y
		f.Properties["geohash"] = geohash.EncodeWithPrecision(
			clampLatitude(bounds.Center.Latitude),
			wrapLongitude(bounds.Center.Longitude),
			overlayGeohashPrecision,
		)
		fc.Append(f)
	}
	return fc
}

func clampLatitude(lat float64) float64 {
	switch {
	case lat > 90:
		return 90
	case lat < -90:
		return -90
	}
	return lat
}

func wrapLongitude(long float64) float64 {
	for long > 180 {
		long -= 360
	}
	for long < -180 {
		long += 360
	}
	return long
}

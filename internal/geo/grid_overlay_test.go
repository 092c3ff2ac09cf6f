package geo

import (
	"testing"

	"mapcluster/internal/domain/entities"
)

func TestGridOverlay(t *testing.T) {
	fc := GridOverlay(entities.RegionFromBounds(0, 0, 100, 100), 60, 1)

	if len(fc.Features) != 4 {
		t.Fatalf("Expected 4 cell features, got %d", len(fc.Features))
	}

	first := fc.Features[0]
	if first.Geometry.GeoJSONType() != "Polygon" {
		t.Errorf("Expected Polygon geometry, got %s", first.Geometry.GeoJSONType())
	}
	if first.Properties["x"] != int64(0) || first.Properties["y"] != int64(0) {
		t.Errorf("Expected first cell (0,0), got (%v,%v)", first.Properties["x"], first.Properties["y"])
	}
	if gh, _ := first.Properties["geohash"].(string); len(gh) != overlayGeohashPrecision {
		t.Errorf("Expected %d-char geohash label, got %q", overlayGeohashPrecision, gh)
	}
}

func TestGridOverlay_DegenerateScale(t *testing.T) {
	fc := GridOverlay(entities.RegionFromBounds(0, 0, 10, 10), 60, 0)
	if len(fc.Features) != 0 {
		t.Errorf("Expected empty overlay, got %d features", len(fc.Features))
	}
}

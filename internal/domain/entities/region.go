package entities

import (
	"math"

	"github.com/paulmach/orb"
)

// Span is the north-to-south and east-to-west extent of a Region in degrees.
type Span struct {
	LatitudeDelta  float64 `json:"lat_delta"`
	LongitudeDelta float64 `json:"long_delta"`
}

// Region is a rectangular area of the map described by its center and span,
// the same shape a map view reports for its visible area.
type Region struct {
	Center Coordinate `json:"center"`
	Span   Span       `json:"span"`
}

// RegionFromBounds builds a Region from its south-west and north-east corners.
func RegionFromBounds(minLat, minLong, maxLat, maxLong float64) Region {
	return Region{
		Center: Coordinate{
			Latitude:  (minLat + maxLat) / 2,
			Longitude: (minLong + maxLong) / 2,
		},
		Span: Span{
			LatitudeDelta:  math.Abs(maxLat - minLat),
			LongitudeDelta: math.Abs(maxLong - minLong),
		},
	}
}

func (r Region) MinLatitude() float64  { return r.Center.Latitude - r.Span.LatitudeDelta/2 }
func (r Region) MaxLatitude() float64  { return r.Center.Latitude + r.Span.LatitudeDelta/2 }
func (r Region) MinLongitude() float64 { return r.Center.Longitude - r.Span.LongitudeDelta/2 }
func (r Region) MaxLongitude() float64 { return r.Center.Longitude + r.Span.LongitudeDelta/2 }

// Bound converts the region into an orb.Bound. orb orders points as
// (x=longitude, y=latitude).
func (r Region) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.MinLongitude(), r.MinLatitude()},
		Max: orb.Point{r.MaxLongitude(), r.MaxLatitude()},
	}
}

// Contains reports whether c lies inside the region. Edges are inclusive.
func (r Region) Contains(c Coordinate) bool {
	return r.Bound().Contains(orb.Point{c.Longitude, c.Latitude})
}

// Expand grows the region by factor times its span on every side, so a
// factor of 0.5 doubles both deltas. Negative factors are treated as zero.
func (r Region) Expand(factor float64) Region {
	if factor <= 0 {
		return r
	}
	return Region{
		Center: r.Center,
		Span: Span{
			LatitudeDelta:  r.Span.LatitudeDelta * (1 + 2*factor),
			LongitudeDelta: r.Span.LongitudeDelta * (1 + 2*factor),
		},
	}
}

// WithCenter returns a copy of the region moved to center, keeping the span.
func (r Region) WithCenter(center Coordinate) Region {
	r.Center = center
	return r
}

// Viewport is what the map surface reports about its current state: the
// visible region and how many screen points one degree covers at the current
// zoom level.
type Viewport struct {
	Region          Region  `json:"region"`
	PointsPerDegree float64 `json:"points_per_degree"`
}

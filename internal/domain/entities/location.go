package entities

import "math"

// Coordinate represents a geographic coordinate pair (latitude/longitude) in
// degrees.
//
// Go Learning Note — Value Types vs Reference Types:
// Coordinate is a small, immutable data holder and is passed by value
// everywhere. It is only 16 bytes (two float64s), so copying it is cheaper
// than chasing a pointer, and a copy can never be mutated behind the back of
// a background goroutine that is reading it.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"long"`
}

// NewCoordinate creates a Coordinate value from latitude and longitude.
func NewCoordinate(lat, long float64) Coordinate {
	return Coordinate{
		Latitude:  lat,
		Longitude: long,
	}
}

// Valid reports whether both components are finite and inside the WGS84
// ranges. Malformed coordinates are rejected before they reach the grid.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

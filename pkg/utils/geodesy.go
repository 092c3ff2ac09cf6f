// Package utils provides small helpers shared across the application:
// geodesic distances and span conversions on top of "github.com/golang/geo",
// and cluster identifiers.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community
// convention, not a Go language feature.
package utils

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"mapcluster/internal/domain/entities"
)

// EarthRadiusMeters is the mean Earth radius used by the S2 library.
const EarthRadiusMeters = 6371010.0

// minLatitudeCosine keeps longitude spans finite near the poles.
const minLatitudeCosine = 1e-6

func latLng(c entities.Coordinate) s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

// DistanceMeters returns the great-circle distance between two coordinates.
//
// Go Learning Note — "github.com/golang/geo/s2":
// s2 models points on the unit sphere, so distances come back as an angle
// (s1.Angle). Multiplying the angle in radians by the Earth's radius gives
// meters. This is the same math as the haversine formula, without having to
// write it by hand.
func DistanceMeters(a, b entities.Coordinate) float64 {
	return latLng(a).Distance(latLng(b)).Radians() * EarthRadiusMeters
}

// MetersToDegrees converts a north-south distance into degrees of latitude.
func MetersToDegrees(meters float64) float64 {
	return (s1.Angle(meters/EarthRadiusMeters) * s1.Radian).Degrees()
}

// SpanForMeters returns the degree span of a region centered on center that
// is latMeters tall and longMeters wide. Longitude degrees shrink with the
// cosine of the latitude.
func SpanForMeters(center entities.Coordinate, latMeters, longMeters float64) entities.Span {
	cos := math.Cos(s1.Angle(center.Latitude * float64(s1.Degree)).Radians())
	if cos < minLatitudeCosine {
		cos = minLatitudeCosine
	}

	longDelta := MetersToDegrees(longMeters) / cos
	if longDelta > 360 {
		longDelta = 360
	}
	latDelta := MetersToDegrees(latMeters)
	if latDelta > 180 {
		latDelta = 180
	}
	return entities.Span{LatitudeDelta: latDelta, LongitudeDelta: longDelta}
}

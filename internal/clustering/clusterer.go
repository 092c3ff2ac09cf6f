// Package clustering turns a snapshot of annotations into cluster groups and
// reconciles each new set of groups against the clusters already on screen.
//
// Everything in this package is a pure function of its inputs. The caller
// hands over an immutable snapshot, so the work can run on any goroutine
// without locks.
package clustering

import (
	"fmt"
	"sort"

	"github.com/mmcloughlin/geohash"

	"mapcluster/internal/domain/entities"
)

// Representative is what a Clusterer derives for one group of members: the
// point the cluster marker sits on and what it displays.
type Representative struct {
	Coordinate entities.Coordinate `json:"coordinate"`
	Title      string              `json:"title"`
	Count      int                 `json:"count"`
}

// Clusterer computes the representative of a non-empty group of members.
//
// Go Learning Note — Single-Method Interfaces:
// Small interfaces like io.Reader are the most reusable kind in Go. Anything
// with a Representative method is a Clusterer, and ClustererFunc lets a plain
// function satisfy it the same way http.HandlerFunc does for http.Handler.
type Clusterer interface {
	Representative(members []entities.Annotation) Representative
}

// ClustererFunc adapts an ordinary function to the Clusterer interface.
type ClustererFunc func(members []entities.Annotation) Representative

// Representative calls f(members).
func (f ClustererFunc) Representative(members []entities.Annotation) Representative {
	return f(members)
}

// DefaultTitle is the member's own title for a singleton and "N annotations"
// otherwise.
func DefaultTitle(members []entities.Annotation) string {
	if len(members) == 1 {
		return members[0].Title
	}
	return fmt.Sprintf("%d annotations", len(members))
}

// CenterOfMass places the representative at the arithmetic mean of the member
// coordinates. Latitude and longitude are averaged independently, which is
// close enough at the size of a grid cell.
type CenterOfMass struct{}

func (CenterOfMass) Representative(members []entities.Annotation) Representative {
	return Representative{
		Coordinate: centroid(members),
		Title:      DefaultTitle(members),
		Count:      len(members),
	}
}

// FirstMember places the representative on the member with the smallest ID,
// so cluster markers always sit on a real annotation.
type FirstMember struct{}

func (FirstMember) Representative(members []entities.Annotation) Representative {
	first := members[0]
	for _, m := range members[1:] {
		if m.ID < first.ID {
			first = m
		}
	}
	return Representative{
		Coordinate: first.Coordinate,
		Title:      DefaultTitle(members),
		Count:      len(members),
	}
}

// defaultSubclusterPrecision is roughly a 1.2km × 0.6km geohash cell.
const defaultSubclusterPrecision = 6

// DensestSubcluster buckets members by geohash prefix and places the
// representative at the centroid of the fullest bucket. Where a cell holds a
// dense town and a few outliers, the marker stays on the town.
type DensestSubcluster struct {
	// Precision is the geohash length used for bucketing. Zero means
	// defaultSubclusterPrecision.
	Precision uint
}

func (d DensestSubcluster) Representative(members []entities.Annotation) Representative {
	precision := d.Precision
	if precision == 0 {
		precision = defaultSubclusterPrecision
	}

	buckets := make(map[string][]entities.Annotation)
	for _, m := range members {
		key := geohash.EncodeWithPrecision(m.Coordinate.Latitude, m.Coordinate.Longitude, precision)
		buckets[key] = append(buckets[key], m)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Largest bucket wins; ties go to the smallest geohash.
	best := keys[0]
	for _, k := range keys[1:] {
		if len(buckets[k]) > len(buckets[best]) {
			best = k
		}
	}

	return Representative{
		Coordinate: centroid(buckets[best]),
		Title:      DefaultTitle(members),
		Count:      len(members),
	}
}

func centroid(members []entities.Annotation) entities.Coordinate {
	var lat, long float64
	for _, m := range members {
		lat += m.Coordinate.Latitude
		long += m.Coordinate.Longitude
	}
	n := float64(len(members))
	return entities.Coordinate{Latitude: lat / n, Longitude: long / n}
}

// Names of the built-in strategies, as accepted by the clustering.clusterer
// configuration key.
const (
	NameCenterOfMass      = "center_of_mass"
	NameFirstMember       = "first_member"
	NameDensestSubcluster = "densest_subcluster"
)

// ByName returns the built-in strategy registered under name. An empty name
// selects CenterOfMass.
func ByName(name string) (Clusterer, bool) {
	switch name {
	case "", NameCenterOfMass:
		return CenterOfMass{}, true
	case NameFirstMember:
		return FirstMember{}, true
	case NameDensestSubcluster:
		return DensestSubcluster{}, true
	}
	return nil, false
}

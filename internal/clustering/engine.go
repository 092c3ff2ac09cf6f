package clustering

import (
	"sort"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/geo"
)

// Input is everything one clustering pass reads. It is captured in a single
// step when the pass is scheduled, so the pass never observes configuration
// or data changed after it started.
type Input struct {
	Index        *geo.AnnotationIndex
	Viewport     entities.Viewport
	MarginFactor float64
	CellSize     float64
	Clusterer    Clusterer

	// PinnedID, when non-empty, names an annotation that must be emitted as
	// its own singleton group.
	PinnedID string
}

// Group is one cluster produced by Recompute, before it has been given an
// identity.
type Group struct {
	Cell           geo.Cell
	Members        []entities.Annotation // sorted by ID
	Representative Representative
	Pinned         bool
}

// MemberIDs returns the IDs of the group's members in order.
func (g Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// ClusteringRegion is the area a pass clusters over: the visible region
// grown by marginFactor on every side.
func ClusteringRegion(viewport entities.Viewport, marginFactor float64) entities.Region {
	return viewport.Region.Expand(marginFactor)
}

// Recompute partitions the annotations inside the margin-expanded viewport
// into one group per occupied grid cell. Every annotation inside the region
// lands in exactly one group; none outside it appear.
//
// Steps:
//  1. Expand the visible region by MarginFactor.
//  2. Query the index for annotations inside it.
//  3. Bucket them by grid cell, holding back the pinned annotation.
//  4. Ask the Clusterer for each bucket's representative.
//
// Groups are returned in row-major cell order. A pinned group comes first
// within its cell. Recompute returns nil when the viewport scale or cell size
// cannot form a grid.
func Recompute(in Input) []Group {
	scale := in.Viewport.PointsPerDegree
	if !(scale > 0) || !(in.CellSize > 0) {
		return nil
	}
	clusterer := in.Clusterer
	if clusterer == nil {
		clusterer = CenterOfMass{}
	}

	visible := in.Index.Within(ClusteringRegion(in.Viewport, in.MarginFactor))
	if len(visible) == 0 {
		return nil
	}

	byCell := make(map[geo.Cell][]entities.Annotation)
	var pinned *Group
	for _, a := range visible {
		cell := geo.CellFor(a.Coordinate, in.CellSize, scale)
		if in.PinnedID != "" && a.ID == in.PinnedID {
			members := []entities.Annotation{a}
			pinned = &Group{
				Cell:           cell,
				Members:        members,
				Representative: clusterer.Representative(members),
				Pinned:         true,
			}
			continue
		}
		// visible is sorted by ID, so each bucket is too.
		byCell[cell] = append(byCell[cell], a)
	}

	cells := make([]geo.Cell, 0, len(byCell)+1)
	for cell := range byCell {
		cells = append(cells, cell)
	}
	if pinned != nil {
		if _, shared := byCell[pinned.Cell]; !shared {
			cells = append(cells, pinned.Cell)
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })

	groups := make([]Group, 0, len(cells)+1)
	for _, cell := range cells {
		if pinned != nil && pinned.Cell == cell {
			groups = append(groups, *pinned)
		}
		members, ok := byCell[cell]
		if !ok {
			continue
		}
		groups = append(groups, Group{
			Cell:           cell,
			Members:        members,
			Representative: clusterer.Representative(members),
		})
	}
	return groups
}

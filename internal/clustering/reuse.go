package clustering

import (
	"sort"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/geo"
	"mapcluster/pkg/utils"
)

// PreviousCluster is the part of a displayed cluster that reconciliation
// needs.
type PreviousCluster struct {
	ID         string
	Coordinate entities.Coordinate
	MemberIDs  []string
}

// ReuseOptions controls Reconcile. CellSize and Scale must be the values
// the groups were computed with.
type ReuseOptions struct {
	Enabled  bool
	CellSize float64
	Scale    float64
}

// Match pairs a new group with the displayed cluster whose identity it keeps.
type Match struct {
	Group    Group
	Previous PreviousCluster
}

// Addition is a group that needs a new cluster. From is where its entrance
// animation starts.
type Addition struct {
	Group Group
	From  entities.Coordinate
}

// Removal is a displayed cluster with no successor. To is where its exit
// animation ends.
type Removal struct {
	Previous PreviousCluster
	To       entities.Coordinate
}

// Plan is the outcome of Reconcile. Kept and Added follow group order;
// Removed follows the order of the previous clusters.
type Plan struct {
	Kept    []Match
	Added   []Addition
	Removed []Removal
}

type candidate struct {
	group    int
	previous int
	overlap  int
	distance float64
}

// Reconcile decides which new groups keep the identity of a displayed
// cluster.
//
// A displayed cluster is a candidate for a group when its coordinate lies in
// the group's cell. Candidate pairs are matched greedily, best first:
//  1. more shared members
//  2. shorter great-circle distance between the two coordinates
//  3. earlier group
//  4. smaller previous ID
//
// Each group and each displayed cluster is used at most once. With reuse
// disabled nothing is kept.
func Reconcile(groups []Group, previous []PreviousCluster, opts ReuseOptions) Plan {
	prevOwner := make(map[string]int)
	for i, p := range previous {
		for _, id := range p.MemberIDs {
			prevOwner[id] = i
		}
	}
	groupOwner := make(map[string]int)
	for i, g := range groups {
		for _, m := range g.Members {
			groupOwner[m.ID] = i
		}
	}

	matchedGroup := make([]bool, len(groups))
	matchedPrev := make([]bool, len(previous))
	var plan Plan

	if opts.Enabled {
		byCell := make(map[geo.Cell][]int)
		for i, p := range previous {
			cell := geo.CellFor(p.Coordinate, opts.CellSize, opts.Scale)
			byCell[cell] = append(byCell[cell], i)
		}

		var candidates []candidate
		for gi, g := range groups {
			prevs := byCell[g.Cell]
			if len(prevs) == 0 {
				continue
			}
			overlap := make(map[int]int)
			for _, m := range g.Members {
				if pi, ok := prevOwner[m.ID]; ok {
					overlap[pi]++
				}
			}
			for _, pi := range prevs {
				candidates = append(candidates, candidate{
					group:    gi,
					previous: pi,
					overlap:  overlap[pi],
					distance: utils.DistanceMeters(g.Representative.Coordinate, previous[pi].Coordinate),
				})
			}
		}

		sort.Slice(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.overlap != b.overlap {
				return a.overlap > b.overlap
			}
			if a.distance != b.distance {
				return a.distance < b.distance
			}
			if a.group != b.group {
				return a.group < b.group
			}
			return previous[a.previous].ID < previous[b.previous].ID
		})

		kept := make(map[int]int)
		for _, c := range candidates {
			if matchedGroup[c.group] || matchedPrev[c.previous] {
				continue
			}
			matchedGroup[c.group] = true
			matchedPrev[c.previous] = true
			kept[c.group] = c.previous
		}
		for gi := range groups {
			if pi, ok := kept[gi]; ok {
				plan.Kept = append(plan.Kept, Match{Group: groups[gi], Previous: previous[pi]})
			}
		}
	}

	for gi, g := range groups {
		if matchedGroup[gi] {
			continue
		}
		from := g.Representative.Coordinate
		if pi, ok := dominantOwner(g.MemberIDs(), prevOwner, func(i int) string { return previous[i].ID }); ok {
			from = previous[pi].Coordinate
		}
		plan.Added = append(plan.Added, Addition{Group: g, From: from})
	}

	for pi, p := range previous {
		if matchedPrev[pi] {
			continue
		}
		to := p.Coordinate
		if gi, ok := dominantOwner(p.MemberIDs, groupOwner, nil); ok {
			to = groups[gi].Representative.Coordinate
		}
		plan.Removed = append(plan.Removed, Removal{Previous: p, To: to})
	}

	return plan
}

// dominantOwner returns the owner holding the most of ids. Ties go to the
// owner with the smaller key, or the smaller index when key is nil.
func dominantOwner(ids []string, owner map[string]int, key func(int) string) (int, bool) {
	counts := make(map[int]int)
	for _, id := range ids {
		if o, ok := owner[id]; ok {
			counts[o]++
		}
	}

	best, bestCount := -1, 0
	for o, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount = o, n
		case n == bestCount:
			if key != nil && key(o) < key(best) || key == nil && o < best {
				best = o
			}
		}
	}
	return best, best >= 0
}

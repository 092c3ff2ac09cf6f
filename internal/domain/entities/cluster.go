package entities

// ClusterAnnotation is a derived group of annotations sharing a grid cell,
// shown on the map as a single marker at Coordinate.
//
// Cluster annotations are created and destroyed by the engine only. When a
// recomputation judges a cell unchanged, the cluster keeps its ID and only
// its coordinate, title and members are refreshed, so presentation code keys
// its views by ID.
type ClusterAnnotation struct {
	ID         string       `json:"id"`
	Coordinate Coordinate   `json:"coordinate"`
	Title      string       `json:"title"`
	Subtitle   string       `json:"subtitle,omitempty"`
	Count      int          `json:"count"`
	Members    []Annotation `json:"members"`
}

// IsSingleton reports whether the cluster stands for exactly one annotation.
func (c *ClusterAnnotation) IsSingleton() bool {
	return len(c.Members) == 1
}

// Contains reports whether the annotation with the given ID is a member.
func (c *ClusterAnnotation) Contains(annotationID string) bool {
	for _, m := range c.Members {
		if m.ID == annotationID {
			return true
		}
	}
	return false
}

// MemberIDs returns the IDs of all members in member order.
func (c *ClusterAnnotation) MemberIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

// Copy returns a value that shares no slices with c. Readers outside the
// controller's delivery goroutine get copies so in-place refreshes never race
// with them.
func (c *ClusterAnnotation) Copy() ClusterAnnotation {
	out := *c
	out.Members = make([]Annotation, len(c.Members))
	copy(out.Members, c.Members)
	return out
}

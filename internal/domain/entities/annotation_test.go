package entities

import (
	"math"
	"testing"
)

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"origin", NewCoordinate(0, 0), true},
		{"corners", NewCoordinate(-90, 180), true},
		{"lat too large", NewCoordinate(90.5, 0), false},
		{"long too small", NewCoordinate(0, -180.1), false},
		{"NaN", NewCoordinate(math.NaN(), 0), false},
		{"Inf", NewCoordinate(0, math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegion_ExpandAndContains(t *testing.T) {
	r := RegionFromBounds(0, 0, 100, 100)

	if !r.Contains(NewCoordinate(0, 0)) || !r.Contains(NewCoordinate(100, 100)) {
		t.Error("Region edges should be inclusive")
	}
	if r.Contains(NewCoordinate(120, 50)) {
		t.Error("Point north of region should not be contained")
	}

	expanded := r.Expand(0.5)
	if expanded.MinLatitude() != -50 || expanded.MaxLatitude() != 150 {
		t.Errorf("Expected lat range [-50,150], got [%v,%v]", expanded.MinLatitude(), expanded.MaxLatitude())
	}
	if !expanded.Contains(NewCoordinate(120, 50)) {
		t.Error("Expanded region should contain point within margin")
	}

	if got := r.Expand(-1); got != r {
		t.Errorf("Negative factor should leave region unchanged, got %+v", got)
	}
}

func TestClusterAnnotation_Copy(t *testing.T) {
	c := &ClusterAnnotation{
		ID:      "c1",
		Count:   2,
		Members: []Annotation{NewAnnotation("a", 1, 1), NewAnnotation("b", 2, 2)},
	}

	cp := c.Copy()
	c.Members[0] = NewAnnotation("z", 0, 0)

	if cp.Members[0].ID != "a" {
		t.Errorf("Copy should not share members, got %s", cp.Members[0].ID)
	}
	if !c.Contains("b") || c.Contains("a") {
		t.Error("Contains should reflect current members")
	}
	if c.IsSingleton() {
		t.Error("Two-member cluster is not a singleton")
	}
}

package clustering

import (
	"math"
	"testing"

	"mapcluster/internal/domain/entities"
)

func annotation(id string, lat, long float64) entities.Annotation {
	a := entities.NewAnnotation(id, lat, long)
	a.Title = id
	return a
}

func TestCenterOfMass(t *testing.T) {
	rep := CenterOfMass{}.Representative([]entities.Annotation{
		annotation("a", 10, 10),
		annotation("b", 15, 15),
	})

	if math.Abs(rep.Coordinate.Latitude-12.5) > 1e-9 || math.Abs(rep.Coordinate.Longitude-12.5) > 1e-9 {
		t.Errorf("Expected (12.5,12.5), got %+v", rep.Coordinate)
	}
	if rep.Count != 2 {
		t.Errorf("Expected count 2, got %d", rep.Count)
	}
	if rep.Title != "2 annotations" {
		t.Errorf("Expected default title, got %q", rep.Title)
	}
}

func TestDefaultTitle_Singleton(t *testing.T) {
	if got := DefaultTitle([]entities.Annotation{annotation("cafe", 1, 1)}); got != "cafe" {
		t.Errorf("Expected member title, got %q", got)
	}
}

func TestFirstMember(t *testing.T) {
	rep := FirstMember{}.Representative([]entities.Annotation{
		annotation("b", 2, 2),
		annotation("a", 1, 1),
	})
	if rep.Coordinate != entities.NewCoordinate(1, 1) {
		t.Errorf("Expected smallest-ID member's coordinate, got %+v", rep.Coordinate)
	}
}

func TestDensestSubcluster(t *testing.T) {
	members := []entities.Annotation{
		annotation("town-1", 48.8566, 2.3522),
		annotation("town-2", 48.8567, 2.3523),
		annotation("town-3", 48.8565, 2.3521),
		annotation("outlier", 49.5, 3.5),
	}

	rep := DensestSubcluster{Precision: 5}.Representative(members)
	if math.Abs(rep.Coordinate.Latitude-48.8566) > 1e-3 || math.Abs(rep.Coordinate.Longitude-2.3522) > 1e-3 {
		t.Errorf("Expected representative on the dense town, got %+v", rep.Coordinate)
	}
	if rep.Count != 4 {
		t.Errorf("Expected count of all members, got %d", rep.Count)
	}

	com := CenterOfMass{}.Representative(members)
	if com.Coordinate == rep.Coordinate {
		t.Error("Expected densest subcluster to differ from the plain centroid")
	}
}

func TestClustererFunc(t *testing.T) {
	var c Clusterer = ClustererFunc(func(members []entities.Annotation) Representative {
		return Representative{Title: "custom", Count: len(members)}
	})
	if got := c.Representative([]entities.Annotation{annotation("a", 0, 0)}); got.Title != "custom" {
		t.Errorf("Expected custom title, got %q", got.Title)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"", true},
		{"center_of_mass", true},
		{"first_member", true},
		{"densest_subcluster", true},
		{"k_means", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ByName(tt.name); ok != tt.ok {
				t.Errorf("ByName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}

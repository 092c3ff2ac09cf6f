package surface

import (
	"testing"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/services"
)

func testViewport() entities.Viewport {
	return entities.Viewport{
		Region:          entities.RegionFromBounds(0, 0, 10, 10),
		PointsPerDegree: 100,
	}
}

func cluster(id string, members ...string) entities.ClusterAnnotation {
	c := entities.ClusterAnnotation{ID: id, Count: len(members)}
	for _, m := range members {
		c.Members = append(c.Members, entities.NewAnnotation(m, 1, 1))
	}
	return c
}

func TestSimulatedMap_PresenterLifecycle(t *testing.T) {
	m := NewSimulatedMap(testViewport(), nil)

	m.ApplyDiff(services.Diff{Added: []entities.ClusterAnnotation{cluster("c1", "a"), cluster("c2", "b", "c")}})
	if got := m.Clusters(); len(got) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(got))
	}

	m.SelectCluster(cluster("c1", "a"))
	if sel, ok := m.Selected(); !ok || sel.ID != "c1" {
		t.Errorf("Expected c1 selected, got %+v", sel)
	}

	m.ApplyDiff(services.Diff{
		Updated: []entities.ClusterAnnotation{cluster("c2", "b", "c", "d")},
		Removed: []entities.ClusterAnnotation{cluster("c1", "a")},
	})
	if m.FadingCount() != 1 {
		t.Errorf("Expected c1 fading, got %d fading", m.FadingCount())
	}
	if got := m.Clusters(); len(got) != 1 || got[0].Count != 3 {
		t.Errorf("Expected only refreshed c2 settled, got %+v", got)
	}

	m.RemoveClusters([]entities.ClusterAnnotation{cluster("c1", "a")})
	if m.FadingCount() != 0 {
		t.Error("Expected fade to be finished")
	}
	if _, ok := m.Selected(); ok {
		t.Error("Removing the selected cluster should clear the selection")
	}
}

func TestSimulatedMap_ViewportChanges(t *testing.T) {
	m := NewSimulatedMap(testViewport(), nil)

	center := entities.NewCoordinate(3, 3)
	m.SetCenter(center, false)

	got := <-m.ViewportChanges()
	if got.Region.Center != center {
		t.Errorf("Expected center %+v, got %+v", center, got.Region.Center)
	}
	if got.Region.Span != testViewport().Region.Span {
		t.Error("SetCenter should keep the span")
	}
}

func TestSimulatedMap_SetRegionRescales(t *testing.T) {
	m := NewSimulatedMap(testViewport(), nil)

	m.SetRegion(entities.RegionFromBounds(0, 0, 5, 5), true)
	if got := m.Viewport().PointsPerDegree; got != 200 {
		t.Errorf("Halving the span should double the scale, got %v", got)
	}
}

func TestSimulatedMap_LatestViewportWins(t *testing.T) {
	m := NewSimulatedMap(testViewport(), nil)

	for i := 0; i < viewportBuffer*2; i++ {
		m.SetCenter(entities.NewCoordinate(float64(i), 0), false)
	}

	var last entities.Viewport
	for len(m.ViewportChanges()) > 0 {
		last = <-m.ViewportChanges()
	}
	if last.Region.Center.Latitude != float64(viewportBuffer*2-1) {
		t.Errorf("Expected the newest viewport to survive, got %+v", last.Region.Center)
	}

	m.Close()
	m.SetCenter(entities.NewCoordinate(1, 1), false)
	if _, ok := <-m.ViewportChanges(); ok {
		t.Error("Expected closed change stream")
	}
}

func TestSimulatedMap_DrivesController(t *testing.T) {
	m := NewSimulatedMap(entities.Viewport{
		Region:          entities.RegionFromBounds(0, 0, 100, 100),
		PointsPerDegree: 1,
	}, nil)
	defer m.Close()

	ctrl, err := services.New(m, m, services.WithAnimator(services.ImmediateAnimator{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ctrl.Close()

	done := make(chan struct{})
	err = ctrl.Add([]entities.Annotation{
		entities.NewAnnotation("a", 10, 10),
		entities.NewAnnotation("b", 15, 15),
	}, func() { close(done) })
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	<-done

	if got := m.Clusters(); len(got) != 1 || got[0].Count != 2 {
		t.Errorf("Expected the map to show one cluster of 2, got %+v", got)
	}
}

// Package surface provides SimulatedMap, an in-memory stand-in for a real
// map view. It plays both collaborator roles a ClusterController needs: it is
// the MapSurface whose viewport drives clustering and the Presenter that
// displays the result.
package surface

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/paulmach/orb/geojson"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/services"
)

// viewportBuffer is how many unread viewport changes are kept. When it is
// full the oldest change is dropped: only the latest viewport matters.
const viewportBuffer = 16

// SimulatedMap is safe for concurrent use.
type SimulatedMap struct {
	logger *slog.Logger

	mu       sync.RWMutex
	viewport entities.Viewport
	changes  chan entities.Viewport
	closed   bool

	clusters   map[string]entities.ClusterAnnotation
	fading     map[string]bool
	selectedID string
	grid       *geojson.FeatureCollection
}

var (
	_ services.MapSurface = (*SimulatedMap)(nil)
	_ services.Presenter  = (*SimulatedMap)(nil)
	_ services.GridDrawer = (*SimulatedMap)(nil)
)

func NewSimulatedMap(viewport entities.Viewport, logger *slog.Logger) *SimulatedMap {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedMap{
		logger:   logger,
		viewport: viewport,
		changes:  make(chan entities.Viewport, viewportBuffer),
		clusters: make(map[string]entities.ClusterAnnotation),
		fading:   make(map[string]bool),
	}
}

// ---------------------------------------------------------------------------
// MapSurface
// ---------------------------------------------------------------------------

func (m *SimulatedMap) Viewport() entities.Viewport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

func (m *SimulatedMap) ViewportChanges() <-chan entities.Viewport {
	return m.changes
}

// SetCenter pans the map, keeping its span and scale.
func (m *SimulatedMap) SetCenter(center entities.Coordinate, animated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport.Region = m.viewport.Region.WithCenter(center)
	m.emitLocked()
}

// SetRegion shows region. The scale follows the new longitude span so the
// map keeps its on-screen width.
func (m *SimulatedMap) SetRegion(region entities.Region, animated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old := m.viewport.Region.Span.LongitudeDelta; old > 0 && region.Span.LongitudeDelta > 0 {
		m.viewport.PointsPerDegree *= old / region.Span.LongitudeDelta
	}
	m.viewport.Region = region
	m.emitLocked()
}

// SetViewport replaces the region and scale in one step, the way a user
// gesture would.
func (m *SimulatedMap) SetViewport(vp entities.Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = vp
	m.emitLocked()
}

// emitLocked publishes the current viewport without ever blocking.
func (m *SimulatedMap) emitLocked() {
	if m.closed {
		return
	}
	for {
		select {
		case m.changes <- m.viewport:
			return
		default:
		}
		select {
		case <-m.changes:
			m.logger.Debug("dropping stale viewport change")
		default:
		}
	}
}

// Close ends the viewport change stream.
func (m *SimulatedMap) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.changes)
	}
}

// ---------------------------------------------------------------------------
// Presenter
// ---------------------------------------------------------------------------

func (m *SimulatedMap) ApplyDiff(d services.Diff) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range d.Added {
		m.clusters[c.ID] = c
	}
	for _, c := range d.Updated {
		m.clusters[c.ID] = c
	}
	for _, c := range d.Removed {
		m.fading[c.ID] = true
	}
}

func (m *SimulatedMap) RemoveClusters(clusters []entities.ClusterAnnotation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range clusters {
		delete(m.clusters, c.ID)
		delete(m.fading, c.ID)
		if m.selectedID == c.ID {
			m.selectedID = ""
		}
	}
}

func (m *SimulatedMap) SelectCluster(c entities.ClusterAnnotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedID = c.ID
}

func (m *SimulatedMap) DeselectCluster(c entities.ClusterAnnotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectedID == c.ID {
		m.selectedID = ""
	}
}

func (m *SimulatedMap) DrawGrid(grid *geojson.FeatureCollection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grid = grid
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Clusters returns the settled clusters on screen ordered by ID. Clusters
// still fading out are left out.
func (m *SimulatedMap) Clusters() []entities.ClusterAnnotation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entities.ClusterAnnotation, 0, len(m.clusters))
	for id, c := range m.clusters {
		if !m.fading[id] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FadingCount is the number of clusters still animating out.
func (m *SimulatedMap) FadingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.fading)
}

// Selected returns the selected cluster, if one is on screen.
func (m *SimulatedMap) Selected() (entities.ClusterAnnotation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clusters[m.selectedID]
	return c, ok && m.selectedID != ""
}

// Grid returns the last grid overlay drawn, or nil.
func (m *SimulatedMap) Grid() *geojson.FeatureCollection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid
}

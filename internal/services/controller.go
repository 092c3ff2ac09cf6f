package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"

	"mapcluster/internal/clustering"
	"mapcluster/internal/config"
	"mapcluster/internal/domain/entities"
	"mapcluster/internal/geo"
	"mapcluster/internal/metrics"
	"mapcluster/internal/repository"
	"mapcluster/internal/repository/memory"
	"mapcluster/pkg/utils"
)

// CustomClustererName is reported in Config when the strategy was supplied
// by the caller rather than picked by name.
const CustomClustererName = "custom"

// centerEpsilon is how close two centers must be, in degrees, to count as
// the same viewport position.
const centerEpsilon = 1e-9

// maxSuppressedCenters bounds the SetCenterWithoutRecompute moves waiting
// for their region event.
const maxSuppressedCenters = 8

// ClusterController keeps the clusters shown on a MapSurface in step with a
// changing set of annotations.
//
// Go Learning Note — One Goroutine Owns the Presenter:
// Background passes, animation timers and viewport events all happen on
// different goroutines, but the Presenter is only ever called from one: the
// delivery goroutine started by New. Everything that must reach the
// presenter is posted to an ordered mailbox that goroutine drains. The
// mailbox never blocks the poster, so a presenter callback can call straight
// back into the controller without deadlocking.
//
// Engine state (configuration, viewport, displayed clusters) sits behind mu.
// mu is never held while calling the scheduler, the surface, the presenter,
// the animator or a completion callback.
type ClusterController struct {
	surface   MapSurface
	presenter Presenter
	repo      repository.AnnotationRepository
	selection *SelectionTracker
	scheduler *UpdateScheduler
	metrics   *metrics.Metrics
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mailMu  sync.Mutex
	mailbox []func()
	wake    chan struct{}

	mu                sync.Mutex
	cfg               config.ClusteringConfig
	clusterer         clustering.Clusterer
	animator          Animator
	viewport          entities.Viewport
	displayed         []entities.ClusterAnnotation
	selectedClusterID string
	configurer        ClusterConfigurer
	// suppressCenters are the centers of SetCenterWithoutRecompute moves
	// whose region events have not arrived yet, oldest first.
	suppressCenters []entities.Coordinate
	closed          bool
}

// passResult is what a background pass hands back to the delivery goroutine.
type passResult struct {
	generation uint64
	reason     TriggerReason
	plan       clustering.Plan
	viewport   entities.Viewport
	margin     float64
	cellSize   float64
	debugging  bool
	elapsed    time.Duration
}

// Option configures a ClusterController.
type Option func(*ClusterController)

// WithConfig sets the initial clustering configuration. New rejects an
// invalid one.
func WithConfig(cfg config.ClusteringConfig) Option {
	return func(c *ClusterController) { c.cfg = cfg }
}

// WithClusterer sets the representative strategy. The default is
// clustering.CenterOfMass.
func WithClusterer(cl clustering.Clusterer) Option {
	return func(c *ClusterController) {
		if cl != nil {
			c.clusterer = cl
		}
	}
}

// WithAnimator sets the animation strategy. The default is a FadeAnimator.
func WithAnimator(a Animator) Option {
	return func(c *ClusterController) {
		if a != nil {
			c.animator = a
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *ClusterController) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *ClusterController) { c.metrics = m }
}

// WithClusterConfigurer sets a hook that adjusts each cluster's title and
// subtitle before the presenter sees it.
func WithClusterConfigurer(cc ClusterConfigurer) Option {
	return func(c *ClusterController) { c.configurer = cc }
}

// WithRepository replaces the default in-memory annotation store.
func WithRepository(r repository.AnnotationRepository) Option {
	return func(c *ClusterController) {
		if r != nil {
			c.repo = r
		}
	}
}

// New creates a controller for surface and presenter and starts its
// delivery goroutine. Call Close to release it.
func New(surface MapSurface, presenter Presenter, opts ...Option) (*ClusterController, error) {
	c := &ClusterController{
		surface:   surface,
		presenter: presenter,
		repo:      memory.NewAnnotationRepository(),
		selection: NewSelectionTracker(),
		logger:    slog.Default(),
		wake:      make(chan struct{}, 1),
		cfg:       config.NewDefaultConfig().Clustering,
		animator:  FadeAnimator{Duration: DefaultFadeDuration},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	if c.clusterer != nil {
		c.cfg.Clusterer = CustomClustererName
	} else {
		cl, ok := clustering.ByName(c.cfg.Clusterer)
		if !ok {
			return nil, fmt.Errorf("%w: unknown clusterer %q", config.ErrInvalidConfiguration, c.cfg.Clusterer)
		}
		c.clusterer = cl
		if c.cfg.Clusterer == "" {
			c.cfg.Clusterer = clustering.NameCenterOfMass
		}
	}

	c.viewport = surface.Viewport()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.scheduler = NewUpdateScheduler(c.launch, c.metrics, c.logger)

	go c.run()
	return c, nil
}

// Close stops the controller. Completion callbacks of operations still in
// flight run before Close returns. Every later operation fails with
// ErrControllerClosed.
func (c *ClusterController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	outstanding := c.scheduler.Close()
	c.cancel()
	for _, fn := range outstanding {
		fn()
	}
	c.logger.Info("cluster controller closed", slog.Int("outstanding_callbacks", len(outstanding)))
}

// ---------------------------------------------------------------------------
// Delivery goroutine
// ---------------------------------------------------------------------------

func (c *ClusterController) run() {
	changes := c.surface.ViewportChanges()
	for {
		select {
		case <-c.ctx.Done():
			return
		case vp, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			c.handleViewport(vp)
		case <-c.wake:
			c.drain()
		}
	}
}

// post queues fn for the delivery goroutine. It never blocks.
func (c *ClusterController) post(fn func()) {
	c.mailMu.Lock()
	c.mailbox = append(c.mailbox, fn)
	c.mailMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *ClusterController) drain() {
	for {
		c.mailMu.Lock()
		batch := c.mailbox
		c.mailbox = nil
		c.mailMu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			if c.ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}

func (c *ClusterController) handleViewport(vp entities.Viewport) {
	if !(vp.PointsPerDegree > 0) || !vp.Region.Center.Valid() {
		c.logger.Warn("ignoring unusable viewport",
			slog.Float64("points_per_degree", vp.PointsPerDegree),
			slog.Float64("lat", vp.Region.Center.Latitude),
			slog.Float64("long", vp.Region.Center.Longitude),
		)
		return
	}

	c.mu.Lock()
	c.viewport = vp
	suppressed := c.consumeSuppressionLocked(vp.Region.Center)
	c.mu.Unlock()

	if suppressed {
		c.logger.Debug("viewport moved without recompute")
		return
	}
	if err := c.scheduler.Trigger(ReasonViewport, nil); err != nil {
		c.logger.Debug("viewport trigger ignored", slog.String("error", err.Error()))
	}
}

// consumeSuppressionLocked reports whether center is the destination of a
// pending SetCenterWithoutRecompute move. Older pending moves are dropped
// with the match, since the surface coalesced or skipped their events. An
// event matching none of them means the surface has moved on, and the queue
// is cleared.
func (c *ClusterController) consumeSuppressionLocked(center entities.Coordinate) bool {
	for i := range c.suppressCenters {
		if sameCenter(c.suppressCenters[i], center) {
			c.suppressCenters = c.suppressCenters[i+1:]
			return true
		}
	}
	c.suppressCenters = nil
	return false
}

// launch snapshots engine state and runs one pass in the background. It is
// the scheduler's LaunchFunc.
func (c *ClusterController) launch(generation uint64, reason TriggerReason) {
	c.mu.Lock()
	pinned, _ := c.selection.Pinned()
	in := clustering.Input{
		Viewport:     c.viewport,
		MarginFactor: c.cfg.MarginFactor,
		CellSize:     c.cfg.CellSize,
		Clusterer:    c.clusterer,
		PinnedID:     pinned,
	}
	previous := make([]clustering.PreviousCluster, len(c.displayed))
	for i := range c.displayed {
		previous[i] = clustering.PreviousCluster{
			ID:         c.displayed[i].ID,
			Coordinate: c.displayed[i].Coordinate,
			MemberIDs:  c.displayed[i].MemberIDs(),
		}
	}
	reuse := clustering.ReuseOptions{
		Enabled:  c.cfg.ReuseExistingClusters,
		CellSize: c.cfg.CellSize,
		Scale:    c.viewport.PointsPerDegree,
	}
	debugging := c.cfg.DebuggingEnabled
	c.mu.Unlock()

	index, err := c.repo.Snapshot(c.ctx)
	if err != nil {
		// The pass still runs, over nothing, so callbacks keep firing.
		c.logger.Error("annotation snapshot failed", slog.String("error", err.Error()))
	}
	in.Index = index

	go func() {
		start := time.Now()
		groups := clustering.Recompute(in)
		plan := clustering.Reconcile(groups, previous, reuse)

		res := passResult{
			generation: generation,
			reason:     reason,
			plan:       plan,
			viewport:   in.Viewport,
			margin:     in.MarginFactor,
			cellSize:   in.CellSize,
			debugging:  debugging,
			elapsed:    time.Since(start),
		}
		c.post(func() { c.handleResult(res) })
	}()
}

func (c *ClusterController) handleResult(res passResult) {
	completions, err := c.scheduler.Finish(res.generation)
	if err != nil {
		c.logger.Debug("discarding clustering result", slog.String("error", err.Error()))
		return
	}

	c.apply(res)
	for _, fn := range completions {
		fn()
	}
	c.scheduler.Advance()
}

// apply installs a pass's result as the displayed set and tells the
// presenter and animator about it.
func (c *ClusterController) apply(res passResult) {
	c.mu.Lock()
	configurer := c.configurer
	c.mu.Unlock()

	// Build and configure the new clusters before taking mu: the configurer
	// is caller code.
	kept := make([]entities.ClusterAnnotation, len(res.plan.Kept))
	for i, m := range res.plan.Kept {
		kept[i] = clusterFromGroup(m.Previous.ID, m.Group)
		configureCluster(configurer, &kept[i], true)
	}
	added := make([]entities.ClusterAnnotation, len(res.plan.Added))
	for i, a := range res.plan.Added {
		added[i] = clusterFromGroup(utils.NewClusterID(), a.Group)
		configureCluster(configurer, &added[i], false)
	}

	c.mu.Lock()

	byID := make(map[string]int, len(c.displayed))
	for i := range c.displayed {
		byID[c.displayed[i].ID] = i
	}

	displayed := make([]entities.ClusterAnnotation, 0, len(kept)+len(added))
	var diff Diff
	var transition Transition

	for _, cl := range kept {
		displayed = append(displayed, cl)
		diff.Updated = append(diff.Updated, cl.Copy())
	}
	for i, cl := range added {
		displayed = append(displayed, cl)
		diff.Added = append(diff.Added, cl.Copy())
		transition.Added = append(transition.Added, AnimatedCluster{Cluster: cl.Copy(), From: res.plan.Added[i].From, To: cl.Coordinate})
	}
	for _, r := range res.plan.Removed {
		i, ok := byID[r.Previous.ID]
		if !ok {
			continue
		}
		old := c.displayed[i].Copy()
		diff.Removed = append(diff.Removed, old)
		transition.Removed = append(transition.Removed, AnimatedCluster{Cluster: old, From: old.Coordinate, To: r.To})
	}
	c.displayed = displayed

	toSelect, toDeselect := c.reselectLocked()

	var grid *geojson.FeatureCollection
	if res.debugging {
		grid = geo.GridOverlay(clustering.ClusteringRegion(res.viewport, res.margin), res.cellSize, res.viewport.PointsPerDegree)
	}
	presenter, animator := c.presenter, c.animator
	c.mu.Unlock()

	if !diff.Empty() {
		presenter.ApplyDiff(diff)
	}
	if len(transition.Added) > 0 || len(transition.Removed) > 0 {
		removed := diff.Removed
		animator.Animate(transition, onceFunc(func() {
			if len(removed) > 0 {
				c.post(func() { c.presenter.RemoveClusters(removed) })
			}
		}))
	}
	if toDeselect != nil {
		presenter.DeselectCluster(*toDeselect)
	}
	if toSelect != nil {
		presenter.SelectCluster(*toSelect)
	}
	if grid != nil {
		if gd, ok := presenter.(GridDrawer); ok {
			gd.DrawGrid(grid)
		}
	}

	c.metrics.ObserveComputation(res.elapsed)
	c.metrics.ObserveDiff(len(diff.Added), len(diff.Removed), len(diff.Updated), len(displayed))
	c.logger.Debug("clustering pass applied",
		slog.String("reason", string(res.reason)),
		slog.Uint64("generation", res.generation),
		slog.Int("added", len(diff.Added)),
		slog.Int("updated", len(diff.Updated)),
		slog.Int("removed", len(diff.Removed)),
		slog.Duration("elapsed", res.elapsed),
	)
}

// reselectLocked works out which cluster should be selected after a pass:
// the one holding the pinned annotation.
func (c *ClusterController) reselectLocked() (toSelect, toDeselect *entities.ClusterAnnotation) {
	target, _ := c.selection.Pinned()

	var current *entities.ClusterAnnotation
	if c.selectedClusterID != "" {
		current = c.displayedByIDLocked(c.selectedClusterID)
		if current == nil {
			// The selected cluster is fading out; the presenter drops it.
			c.selectedClusterID = ""
		}
	}

	if target == "" {
		return nil, nil
	}
	next := c.clusterContainingLocked(target)
	if next == nil || next.ID == c.selectedClusterID {
		return nil, nil
	}

	selected := next.Copy()
	c.selectedClusterID = selected.ID
	if current != nil {
		deselected := current.Copy()
		return &selected, &deselected
	}
	return &selected, nil
}

func (c *ClusterController) displayedByIDLocked(id string) *entities.ClusterAnnotation {
	for i := range c.displayed {
		if c.displayed[i].ID == id {
			return &c.displayed[i]
		}
	}
	return nil
}

func (c *ClusterController) clusterContainingLocked(annotationID string) *entities.ClusterAnnotation {
	for i := range c.displayed {
		if c.displayed[i].Contains(annotationID) {
			return &c.displayed[i]
		}
	}
	return nil
}

func clusterFromGroup(id string, g clustering.Group) entities.ClusterAnnotation {
	count := g.Representative.Count
	if count <= 0 {
		count = len(g.Members)
	}
	return entities.ClusterAnnotation{
		ID:         id,
		Coordinate: g.Representative.Coordinate,
		Title:      g.Representative.Title,
		Count:      count,
		Members:    g.Members,
	}
}

func sameCenter(a, b entities.Coordinate) bool {
	return math.Abs(a.Latitude-b.Latitude) < centerEpsilon && math.Abs(a.Longitude-b.Longitude) < centerEpsilon
}

// ---------------------------------------------------------------------------
// Annotations
// ---------------------------------------------------------------------------

// Add stores annotations and schedules a pass. An annotation whose ID is
// already stored is replaced. The batch is rejected whole, and completion
// is not called, if any annotation is invalid.
func (c *ClusterController) Add(annotations []entities.Annotation, completion func()) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	for i, a := range annotations {
		if a.ID == "" {
			return fmt.Errorf("%w: annotation %d has an empty ID", ErrInvalidAnnotation, i)
		}
		if !a.Coordinate.Valid() {
			return fmt.Errorf("%w: annotation %q has invalid coordinate (%v, %v)",
				ErrInvalidAnnotation, a.ID, a.Coordinate.Latitude, a.Coordinate.Longitude)
		}
	}

	if err := c.repo.Upsert(c.ctx, annotations); err != nil {
		return fmt.Errorf("services: storing annotations: %w", err)
	}
	c.recordAnnotationCount()
	return c.scheduler.Trigger(ReasonAdd, completion)
}

// Remove deletes annotations by ID and schedules a pass. Unknown IDs are
// ignored. A removed annotation that was pinned is unpinned.
func (c *ClusterController) Remove(annotations []entities.Annotation, completion func()) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	ids := make([]string, len(annotations))
	for i, a := range annotations {
		ids[i] = a.ID
	}

	if _, err := c.repo.Remove(c.ctx, ids); err != nil {
		return fmt.Errorf("services: removing annotations: %w", err)
	}
	for _, id := range ids {
		c.selection.Deselect(id)
	}
	c.recordAnnotationCount()
	return c.scheduler.Trigger(ReasonRemove, completion)
}

// RemoveAll deletes every annotation and schedules a pass.
func (c *ClusterController) RemoveAll(completion func()) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := c.repo.RemoveAll(c.ctx); err != nil {
		return fmt.Errorf("services: removing annotations: %w", err)
	}
	c.selection.DeselectAll()
	c.recordAnnotationCount()
	return c.scheduler.Trigger(ReasonRemoveAll, completion)
}

// Refresh schedules a pass without changing anything, e.g. after a
// configuration change.
func (c *ClusterController) Refresh(completion func()) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.scheduler.Trigger(ReasonRefresh, completion)
}

func (c *ClusterController) recordAnnotationCount() {
	if n, err := c.repo.Count(c.ctx); err == nil {
		c.metrics.SetAnnotations(n)
	}
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Select pins a so the following passes show it as its own cluster and keep
// that cluster selected. If a is already displayed on its own it is
// selected right away.
func (c *ClusterController) Select(a entities.Annotation) error {
	if _, err := c.lookup(a.ID); err != nil {
		return err
	}
	c.selection.Select(a.ID)

	id := a.ID
	c.post(func() {
		c.mu.Lock()
		if pinned, ok := c.selection.Pinned(); !ok || pinned != id {
			c.mu.Unlock()
			return
		}
		next := c.clusterContainingLocked(id)
		if next == nil || !next.IsSingleton() || next.ID == c.selectedClusterID {
			c.mu.Unlock()
			return
		}
		var deselected *entities.ClusterAnnotation
		if current := c.displayedByIDLocked(c.selectedClusterID); current != nil {
			cp := current.Copy()
			deselected = &cp
		}
		selected := next.Copy()
		c.selectedClusterID = selected.ID
		presenter := c.presenter
		c.mu.Unlock()

		if deselected != nil {
			presenter.DeselectCluster(*deselected)
		}
		presenter.SelectCluster(selected)
	})
	return nil
}

// SelectAndForceUpdate pins a and schedules a pass immediately.
func (c *ClusterController) SelectAndForceUpdate(a entities.Annotation) error {
	if err := c.Select(a); err != nil {
		return err
	}
	return c.scheduler.Trigger(ReasonSelection, nil)
}

// Deselect unpins a and deselects the cluster showing it. The next pass may
// merge a with its neighbours again.
func (c *ClusterController) Deselect(a entities.Annotation) error {
	if _, err := c.lookup(a.ID); err != nil {
		return err
	}
	c.selection.Deselect(a.ID)

	id := a.ID
	c.post(func() {
		c.mu.Lock()
		current := c.displayedByIDLocked(c.selectedClusterID)
		if current == nil || !current.Contains(id) {
			c.mu.Unlock()
			return
		}
		deselected := current.Copy()
		c.selectedClusterID = ""
		presenter := c.presenter
		c.mu.Unlock()

		presenter.DeselectCluster(deselected)
	})
	return nil
}

// DeselectAll clears the pin and any selected cluster.
func (c *ClusterController) DeselectAll() {
	c.selection.DeselectAll()
	c.post(func() {
		c.mu.Lock()
		current := c.displayedByIDLocked(c.selectedClusterID)
		c.selectedClusterID = ""
		if current == nil {
			c.mu.Unlock()
			return
		}
		deselected := current.Copy()
		presenter := c.presenter
		c.mu.Unlock()

		presenter.DeselectCluster(deselected)
	})
}

// HasSelected reports whether the pinned annotation is among candidates.
func (c *ClusterController) HasSelected(candidates []entities.Annotation) bool {
	return c.selection.IsAnySelected(candidates)
}

// lookup returns the stored annotation with id. Cluster IDs are not
// annotations and fail like any other unknown ID.
func (c *ClusterController) lookup(id string) (*entities.Annotation, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	stored, err := c.repo.Get(c.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("services: looking up annotation %q: %w", id, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnnotation, id)
	}
	return stored, nil
}

// ---------------------------------------------------------------------------
// Viewport
// ---------------------------------------------------------------------------

// SetCenterWithoutRecompute moves the map without a clustering pass. Use it
// when cluster membership cannot have changed, e.g. to recenter on a
// selected cluster.
func (c *ClusterController) SetCenterWithoutRecompute(center entities.Coordinate, animated bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !center.Valid() {
		return fmt.Errorf("%w: center (%v, %v)", ErrInvalidRegion, center.Latitude, center.Longitude)
	}

	c.mu.Lock()
	last := c.viewport.Region.Center
	if n := len(c.suppressCenters); n > 0 {
		last = c.suppressCenters[n-1]
	}
	if sameCenter(last, center) {
		c.mu.Unlock()
		return nil
	}
	if len(c.suppressCenters) == maxSuppressedCenters {
		c.suppressCenters = c.suppressCenters[1:]
	}
	c.suppressCenters = append(c.suppressCenters, center)
	c.mu.Unlock()

	c.surface.SetCenter(center, animated)
	return nil
}

// SelectAndZoomTo pins a in place of any earlier pin and zooms the map to a
// region latMeters by longMeters around it. The pass that follows the zoom
// shows a on its own and selects it.
func (c *ClusterController) SelectAndZoomTo(a entities.Annotation, latMeters, longMeters float64) error {
	stored, err := c.lookup(a.ID)
	if err != nil {
		return err
	}
	if !(latMeters > 0) || !(longMeters > 0) || math.IsInf(latMeters, 0) || math.IsInf(longMeters, 0) {
		return fmt.Errorf("%w: span %vm × %vm", ErrInvalidRegion, latMeters, longMeters)
	}

	region := entities.Region{
		Center: stored.Coordinate,
		Span:   utils.SpanForMeters(stored.Coordinate, latMeters, longMeters),
	}

	c.selection.Select(stored.ID)
	c.surface.SetRegion(region, true)
	return nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Clusters returns copies of the displayed clusters.
func (c *ClusterController) Clusters() []entities.ClusterAnnotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entities.ClusterAnnotation, len(c.displayed))
	for i := range c.displayed {
		out[i] = c.displayed[i].Copy()
	}
	return out
}

// Annotations returns every retained annotation ordered by ID.
func (c *ClusterController) Annotations() ([]entities.Annotation, error) {
	index, err := c.repo.Snapshot(c.ctx)
	if err != nil {
		return nil, err
	}
	return index.All(), nil
}

// Viewport returns the last viewport reported by the surface.
func (c *ClusterController) Viewport() entities.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// GridOverlay renders the cells of the current clustering region.
func (c *ClusterController) GridOverlay() *geojson.FeatureCollection {
	c.mu.Lock()
	vp, cfg := c.viewport, c.cfg
	c.mu.Unlock()
	return geo.GridOverlay(clustering.ClusteringRegion(vp, cfg.MarginFactor), cfg.CellSize, vp.PointsPerDegree)
}

func (c *ClusterController) Config() config.ClusteringConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *ClusterController) SchedulerState() SchedulerState {
	return c.scheduler.State()
}

// ---------------------------------------------------------------------------
// Configuration
//
// Setters take effect from the next pass. They do not schedule one; call
// Refresh for that.
// ---------------------------------------------------------------------------

func (c *ClusterController) SetMarginFactor(f float64) error {
	if err := config.ValidateMarginFactor(f); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.MarginFactor = f
	return nil
}

func (c *ClusterController) SetCellSize(size float64) error {
	if err := config.ValidateCellSize(size); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.CellSize = size
	return nil
}

func (c *ClusterController) SetReuseExistingClusters(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.ReuseExistingClusters = enabled
}

// SetDebuggingEnabled toggles the grid overlay. Turning it off clears the
// grid from a GridDrawer presenter.
func (c *ClusterController) SetDebuggingEnabled(enabled bool) {
	c.mu.Lock()
	was := c.cfg.DebuggingEnabled
	c.cfg.DebuggingEnabled = enabled
	c.mu.Unlock()

	if was && !enabled {
		c.post(func() {
			if gd, ok := c.presenter.(GridDrawer); ok {
				gd.DrawGrid(nil)
			}
		})
	}
}

// SetClusterer swaps in a caller-supplied representative strategy. nil
// restores clustering.CenterOfMass.
func (c *ClusterController) SetClusterer(cl clustering.Clusterer) {
	name := CustomClustererName
	if cl == nil {
		cl, name = clustering.CenterOfMass{}, clustering.NameCenterOfMass
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clusterer = cl
	c.cfg.Clusterer = name
}

// SetClustererByName switches to one of the built-in strategies.
func (c *ClusterController) SetClustererByName(name string) error {
	cl, ok := clustering.ByName(name)
	if !ok {
		return fmt.Errorf("%w: unknown clusterer %q", config.ErrInvalidConfiguration, name)
	}
	if name == "" {
		name = clustering.NameCenterOfMass
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clusterer = cl
	c.cfg.Clusterer = name
	return nil
}

// SetClusterConfigurer replaces the configuration hook. nil removes it.
func (c *ClusterController) SetClusterConfigurer(cc ClusterConfigurer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configurer = cc
}

// SetAnimator swaps the animation strategy. nil disables animation.
func (c *ClusterController) SetAnimator(a Animator) {
	if a == nil {
		a = ImmediateAnimator{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.animator = a
}

func (c *ClusterController) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrControllerClosed
	}
	return nil
}

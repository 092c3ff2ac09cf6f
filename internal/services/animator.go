package services

import (
	"sync"
	"time"

	"mapcluster/internal/domain/entities"
)

// AnimatedCluster is one cluster in a Transition. For added clusters From is
// where the entrance starts; for removed clusters To is where the exit ends.
type AnimatedCluster struct {
	Cluster entities.ClusterAnnotation
	From    entities.Coordinate
	To      entities.Coordinate
}

// Transition is everything that should animate after a pass.
type Transition struct {
	Added   []AnimatedCluster
	Removed []AnimatedCluster
}

// Animator plays a Transition and calls done when it has finished. done may
// be called from any goroutine and more than once; only the first call
// counts. Removed clusters stay displayed until done is called.
type Animator interface {
	Animate(t Transition, done func())
}

// AnimatorFunc adapts an ordinary function to the Animator interface.
type AnimatorFunc func(t Transition, done func())

func (f AnimatorFunc) Animate(t Transition, done func()) { f(t, done) }

// ImmediateAnimator skips animation entirely.
type ImmediateAnimator struct{}

func (ImmediateAnimator) Animate(_ Transition, done func()) { done() }

// DefaultFadeDuration matches the fade used by common map clustering UIs.
const DefaultFadeDuration = 200 * time.Millisecond

// FadeAnimator fades added clusters in and removed clusters out over
// Duration. It has no visuals of its own: it only keeps removed clusters on
// screen for as long as the presenter's fade takes.
type FadeAnimator struct {
	Duration time.Duration
}

func (f FadeAnimator) Animate(t Transition, done func()) {
	d := f.Duration
	if d <= 0 {
		d = DefaultFadeDuration
	}
	if len(t.Added) == 0 && len(t.Removed) == 0 {
		done()
		return
	}
	time.AfterFunc(d, done)
}

// onceFunc makes fn safe to call repeatedly.
func onceFunc(fn func()) func() {
	var once sync.Once
	return func() { once.Do(fn) }
}

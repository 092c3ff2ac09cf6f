package services

import (
	"testing"
	"time"

	"mapcluster/internal/domain/entities"
)

func TestFadeAnimator_CallsDoneAfterDuration(t *testing.T) {
	done := make(chan time.Time, 1)
	start := time.Now()

	FadeAnimator{Duration: 20 * time.Millisecond}.Animate(Transition{
		Removed: []AnimatedCluster{{Cluster: entities.ClusterAnnotation{ID: "c"}}},
	}, func() { done <- time.Now() })

	select {
	case at := <-done:
		if at.Sub(start) < 20*time.Millisecond {
			t.Errorf("done fired after %v, before the fade finished", at.Sub(start))
		}
	case <-time.After(time.Second):
		t.Fatal("done was never called")
	}
}

func TestFadeAnimator_EmptyTransition(t *testing.T) {
	called := false
	FadeAnimator{Duration: time.Hour}.Animate(Transition{}, func() { called = true })
	if !called {
		t.Error("An empty transition should complete immediately")
	}
}

func TestOnceFunc(t *testing.T) {
	n := 0
	fn := onceFunc(func() { n++ })
	fn()
	fn()
	if n != 1 {
		t.Errorf("Expected one call, got %d", n)
	}
}

func TestAnimatorFunc(t *testing.T) {
	var got Transition
	var a Animator = AnimatorFunc(func(tr Transition, done func()) { got = tr; done() })

	called := false
	a.Animate(Transition{Added: make([]AnimatedCluster, 2)}, func() { called = true })
	if !called || len(got.Added) != 2 {
		t.Error("AnimatorFunc should forward the transition and done")
	}
}

package services

import (
	"fmt"
	"log/slog"
	"sync"

	"mapcluster/internal/metrics"
)

// TriggerReason says why a clustering pass was requested.
type TriggerReason string

const (
	ReasonViewport  TriggerReason = "viewport"
	ReasonAdd       TriggerReason = "add"
	ReasonRemove    TriggerReason = "remove"
	ReasonRemoveAll TriggerReason = "remove_all"
	ReasonSelection TriggerReason = "selection"
	ReasonRefresh   TriggerReason = "refresh"
)

// SchedulerState is the UpdateScheduler's position in its state machine.
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StateComputing
	StateComputingWithPendingTrigger
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputing:
		return "computing"
	case StateComputingWithPendingTrigger:
		return "computing_with_pending_trigger"
	}
	return fmt.Sprintf("SchedulerState(%d)", int(s))
}

// LaunchFunc starts one clustering pass in the background. It must take its
// snapshot of engine state before returning and eventually hand the result,
// tagged with generation, back to whoever calls Finish.
type LaunchFunc func(generation uint64, reason TriggerReason)

// UpdateScheduler coalesces clustering triggers so at most one pass is in
// flight and at most one more is waiting.
//
//	Idle                        + trigger → Computing (launch)
//	Computing                   + trigger → ComputingWithPendingTrigger
//	ComputingWithPendingTrigger + trigger → ComputingWithPendingTrigger
//	Computing                   + result  → Idle
//	ComputingWithPendingTrigger + result  → Computing (launch pending)
//
// A result is handled in two steps so the caller can apply it in between:
// Finish hands over the completed pass's callbacks, then Advance moves the
// state machine and launches the pending pass, which therefore snapshots
// the freshly applied state.
//
// Completion callbacks are never dropped. Triggers folded into the pending
// pass have their callbacks run when that pass completes.
type UpdateScheduler struct {
	launch  LaunchFunc
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu            sync.Mutex
	state         SchedulerState
	generation    uint64
	running       []func()
	pending       []func()
	pendingReason TriggerReason
	closed        bool
}

func NewUpdateScheduler(launch LaunchFunc, m *metrics.Metrics, logger *slog.Logger) *UpdateScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateScheduler{launch: launch, metrics: m, logger: logger}
}

// State returns the current state.
func (s *UpdateScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Trigger requests a pass. completion, if non-nil, runs once the pass that
// reflects this trigger has been applied.
func (s *UpdateScheduler) Trigger(reason TriggerReason, completion func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrControllerClosed
	}
	s.metrics.Trigger(string(reason))

	switch s.state {
	case StateIdle:
		s.state = StateComputing
		s.generation++
		s.running = appendCompletion(nil, completion)
		gen := s.generation
		s.mu.Unlock()

		s.logger.Debug("clustering pass launched",
			slog.String("reason", string(reason)),
			slog.Uint64("generation", gen),
		)
		s.launch(gen, reason)
		return nil

	case StateComputing:
		s.state = StateComputingWithPendingTrigger
	case StateComputingWithPendingTrigger:
		s.metrics.Coalesced()
	}
	s.pending = appendCompletion(s.pending, completion)
	s.pendingReason = reason
	s.mu.Unlock()
	return nil
}

// Finish accepts the result of the pass tagged generation and returns the
// callbacks to run once it has been applied. It returns errStaleComputation
// when the result belongs to a pass that is no longer current; such a
// result must be dropped and Advance must not be called.
func (s *UpdateScheduler) Finish(generation uint64) ([]func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state == StateIdle || generation != s.generation {
		s.metrics.Stale()
		return nil, fmt.Errorf("%w: generation %d, current %d", errStaleComputation, generation, s.generation)
	}
	completions := s.running
	s.running = nil
	return completions, nil
}

// Advance completes the transition started by Finish. With a pending
// trigger it launches the next pass.
func (s *UpdateScheduler) Advance() {
	s.mu.Lock()
	if s.closed || s.state != StateComputingWithPendingTrigger {
		if !s.closed {
			s.state = StateIdle
		}
		s.mu.Unlock()
		return
	}

	s.state = StateComputing
	s.generation++
	s.running, s.pending = s.pending, nil
	gen, reason := s.generation, s.pendingReason
	s.mu.Unlock()

	s.logger.Debug("clustering pass launched",
		slog.String("reason", string(reason)),
		slog.Uint64("generation", gen),
		slog.Bool("coalesced", true),
	)
	s.launch(gen, reason)
}

// Close stops the scheduler and returns every outstanding callback so the
// caller can run them. Results that arrive afterwards are stale.
func (s *UpdateScheduler) Close() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.state = StateIdle
	s.generation++
	outstanding := append(s.running, s.pending...)
	s.running, s.pending = nil, nil
	return outstanding
}

func appendCompletion(list []func(), fn func()) []func() {
	if fn == nil {
		return list
	}
	return append(list, fn)
}

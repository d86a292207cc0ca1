package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mechanio/garage/internal/metrics"
	"github.com/mechanio/garage/internal/model"
)

const (
	// maxStepAttempts bounds infrastructure-failure retries per step for
	// the lifetime of the process. Once exhausted, a run defers to the
	// next scheduled tick instead of retrying inline.
	maxStepAttempts = 5

	backoffInitial = 200 * time.Millisecond
	backoffMax     = 5 * time.Second
)

// Reconciler is the self-healing synchronization loop. It re-derives the
// true step from gating-entity existence and advances the persisted state
// when it has drifted behind (crash mid-transition, out-of-band entity
// creation). It never advances past a step whose entity does not exist.
type Reconciler struct {
	engine   *Engine
	store    Store
	checker  Checker
	logger   zerolog.Logger
	interval time.Duration

	// mu serializes runs: a trigger firing while a run is in progress
	// waits rather than producing two overlapping writes.
	mu sync.Mutex

	watchMu sync.Mutex
	watched map[string]model.Actor

	trigger chan model.Actor

	attemptMu sync.Mutex
	attempts  map[string]int

	backoffInitial time.Duration
	backoffMax     time.Duration

	// onState, when set, receives every state the reconciler loads or
	// produces. The façade uses it to refresh its cache.
	onState func(*model.WorkflowState)
}

func NewReconciler(engine *Engine, store Store, checker Checker, logger zerolog.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		engine:   engine,
		store:    store,
		checker:  checker,
		logger:   logger,
		interval: interval,
		watched:  map[string]model.Actor{},
		trigger:  make(chan model.Actor, 16),
		attempts: map[string]int{},

		backoffInitial: backoffInitial,
		backoffMax:     backoffMax,
	}
}

// OnState registers a callback invoked with every reconciled state.
func (r *Reconciler) OnState(fn func(*model.WorkflowState)) {
	r.onState = fn
}

// Watch adds an actor to the set reconciled on every tick. Called when a
// session is established.
func (r *Reconciler) Watch(actor model.Actor) {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	r.watched[actor.UserID] = actor
}

// Unwatch removes an actor from the periodic set, e.g. on sign-out.
func (r *Reconciler) Unwatch(actor model.Actor) {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	delete(r.watched, actor.UserID)
}

// Trigger requests an opportunistic reconciliation for an actor, e.g. on a
// session change. Non-blocking: when the queue is full the next periodic
// tick covers the actor anyway.
func (r *Reconciler) Trigger(actor model.Actor) {
	select {
	case r.trigger <- actor:
	default:
	}
}

// Run executes the loop until ctx is cancelled. The ticker is released
// deterministically on return.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case actor := <-r.trigger:
			r.reconcileLogged(ctx, actor)
		case <-ticker.C:
			for _, actor := range r.watchedActors() {
				r.reconcileLogged(ctx, actor)
			}
		}
	}
}

func (r *Reconciler) watchedActors() []model.Actor {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	out := make([]model.Actor, 0, len(r.watched))
	for _, a := range r.watched {
		out = append(out, a)
	}
	return out
}

func (r *Reconciler) reconcileLogged(ctx context.Context, actor model.Actor) {
	if _, err := r.Reconcile(ctx, actor); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Warn().Err(err).Str("actor_id", actor.UserID).Msg("onboarding reconciliation failed")
	}
}

// Reconcile advances the actor's persisted state while the gating entity
// for the current step already exists, stopping at the first absent entity
// or the terminal step. Safe to call concurrently; runs are serialized.
func (r *Reconciler) Reconcile(ctx context.Context, actor model.Actor) (*model.WorkflowState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.store.Load(ctx, actor)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("reconcile %s: %w", actor.UserID, err)
	}
	r.publish(state)

	for !IsTerminal(state.CurrentStep) {
		step := state.CurrentStep
		key := actor.UserID + "/" + step.String()

		exists, err := r.checker.Exists(ctx, actor, step)
		if err != nil {
			if !IsRetryable(err) {
				metrics.ReconcileRuns.WithLabelValues("error").Inc()
				return state, fmt.Errorf("reconcile %s: %w", actor.UserID, err)
			}
			if !r.retryBudget(key) {
				metrics.ReconcileRuns.WithLabelValues("deferred").Inc()
				r.logger.Warn().
					Str("actor_id", actor.UserID).
					Str("step", step.String()).
					Msg("retry budget exhausted, deferring to next tick")
				return state, fmt.Errorf("reconcile %s: %w", actor.UserID, err)
			}
			if !r.backoffWait(ctx, key) {
				return state, ctx.Err()
			}
			continue
		}
		if !exists {
			// Ground truth says this step is genuinely incomplete.
			break
		}

		next, err := r.engine.CompleteStep(ctx, actor, step, nil)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				// A concurrent writer advanced past this step. Reload and
				// carry on from wherever it landed.
				state, err = r.store.Load(ctx, actor)
				if err != nil {
					metrics.ReconcileRuns.WithLabelValues("error").Inc()
					return nil, fmt.Errorf("reconcile %s: %w", actor.UserID, err)
				}
				r.publish(state)
				continue
			}
			if IsRetryable(err) {
				if !r.retryBudget(key) {
					metrics.ReconcileRuns.WithLabelValues("deferred").Inc()
					return state, fmt.Errorf("reconcile %s: %w", actor.UserID, err)
				}
				if !r.backoffWait(ctx, key) {
					return state, ctx.Err()
				}
				continue
			}
			metrics.ReconcileRuns.WithLabelValues("error").Inc()
			return state, fmt.Errorf("reconcile %s: %w", actor.UserID, err)
		}

		r.clearAttempts(key)
		metrics.ReconcileAdvances.WithLabelValues(step.String()).Inc()
		r.logger.Info().
			Str("actor_id", actor.UserID).
			Str("step", step.String()).
			Str("current", next.CurrentStep.String()).
			Msg("reconciler advanced drifted onboarding state")
		state = next
		r.publish(state)
	}

	metrics.ReconcileRuns.WithLabelValues("ok").Inc()
	return state, nil
}

func (r *Reconciler) publish(state *model.WorkflowState) {
	if r.onState != nil {
		r.onState(state)
	}
}

// retryBudget consumes one attempt for the key and reports whether the
// budget still allows an inline retry.
func (r *Reconciler) retryBudget(key string) bool {
	r.attemptMu.Lock()
	defer r.attemptMu.Unlock()
	if r.attempts[key] >= maxStepAttempts {
		return false
	}
	r.attempts[key]++
	return true
}

func (r *Reconciler) clearAttempts(key string) {
	r.attemptMu.Lock()
	defer r.attemptMu.Unlock()
	delete(r.attempts, key)
}

// backoffWait sleeps for an exponentially growing interval derived from the
// attempt count for key. Returns false when ctx was cancelled while waiting.
func (r *Reconciler) backoffWait(ctx context.Context, key string) bool {
	r.attemptMu.Lock()
	attempt := r.attempts[key]
	r.attemptMu.Unlock()

	delay := r.backoffInitial << (attempt - 1)
	if delay > r.backoffMax {
		delay = r.backoffMax
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

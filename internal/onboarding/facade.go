package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mechanio/garage/internal/model"
)

// Service is the single onboarding surface exposed to the API layer. It
// composes the store, transition engine, and reconciler, and keeps a
// per-actor cache of the last known state, refreshed by the reconciler.
type Service struct {
	store      Store
	engine     *Engine
	reconciler *Reconciler

	cacheMu sync.RWMutex
	cache   map[string]*model.WorkflowState
}

func NewService(store Store, checker Checker, logger zerolog.Logger, reconcileInterval time.Duration) *Service {
	engine := NewEngine(store, checker, logger)
	reconciler := NewReconciler(engine, store, checker, logger, reconcileInterval)

	s := &Service{
		store:      store,
		engine:     engine,
		reconciler: reconciler,
		cache:      map[string]*model.WorkflowState{},
	}
	reconciler.OnState(s.cacheState)
	return s
}

// Run starts the synchronization loop; it blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	return s.reconciler.Run(ctx)
}

// SessionStarted registers the actor for periodic reconciliation and
// requests an immediate run. Called on every authentication/session change.
func (s *Service) SessionStarted(actor model.Actor) {
	s.reconciler.Watch(actor)
	s.reconciler.Trigger(actor)
}

// SessionEnded stops periodic reconciliation for the actor.
func (s *Service) SessionEnded(actor model.Actor) {
	s.reconciler.Unwatch(actor)
}

// GetState returns the actor's workflow state. The cached copy is served
// when present; otherwise the store is consulted and the result cached.
func (s *Service) GetState(ctx context.Context, actor model.Actor) (*model.WorkflowState, error) {
	s.cacheMu.RLock()
	cached, ok := s.cache[actor.UserID]
	s.cacheMu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	state, err := s.store.Load(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	s.cacheState(state)
	return state.Clone(), nil
}

// CompleteStep attempts to complete the given step for the actor.
func (s *Service) CompleteStep(ctx context.Context, actor model.Actor, step model.WorkflowStep, metadata json.RawMessage) (*model.WorkflowState, error) {
	state, err := s.engine.CompleteStep(ctx, actor, step, metadata)
	if err != nil {
		return nil, err
	}
	s.cacheState(state)
	return state.Clone(), nil
}

// Reset deletes the persisted state and metadata. The in-memory state
// reverts to the default initial state.
func (s *Service) Reset(ctx context.Context, actor model.Actor) error {
	if err := s.store.Reset(ctx, actor); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.cacheState(model.NewWorkflowState(actor.UserID))
	return nil
}

func (s *Service) cacheState(state *model.WorkflowState) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[state.ActorID] = state.Clone()
}

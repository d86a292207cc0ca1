package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mechanio/garage/internal/metrics"
	"github.com/mechanio/garage/internal/model"
)

// Engine validates and applies step transitions. All mutation of workflow
// state flows through here.
type Engine struct {
	store   Store
	checker Checker
	logger  zerolog.Logger
}

func NewEngine(store Store, checker Checker, logger zerolog.Logger) *Engine {
	return &Engine{store: store, checker: checker, logger: logger}
}

// CompleteStep advances the workflow past claimed if and only if claimed is
// the current step and its gating entity exists. A non-nil metadata payload
// is recorded against the completed step, first writer wins. The updated
// state is persisted before it is returned; on a failed save the caller
// observes no advancement.
func (e *Engine) CompleteStep(ctx context.Context, actor model.Actor, claimed model.WorkflowStep, metadata json.RawMessage) (*model.WorkflowState, error) {
	if !IsValid(claimed) {
		metrics.OnboardingRejections.WithLabelValues("invalid_transition").Inc()
		return nil, fmt.Errorf("complete %s: %w: unknown step", claimed, ErrInvalidTransition)
	}

	state, err := e.store.Load(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("complete %s: %w", claimed, err)
	}

	if IsTerminal(claimed) || claimed != state.CurrentStep {
		metrics.OnboardingRejections.WithLabelValues("invalid_transition").Inc()
		e.logger.Warn().
			Str("actor_id", actor.UserID).
			Str("claimed", claimed.String()).
			Str("current", state.CurrentStep.String()).
			Msg("rejected out-of-order step completion")
		return nil, fmt.Errorf("complete %s while at %s: %w", claimed, state.CurrentStep, ErrInvalidTransition)
	}

	exists, err := e.checker.Exists(ctx, actor, claimed)
	if err != nil {
		return nil, fmt.Errorf("complete %s: %w", claimed, err)
	}
	if !exists {
		metrics.OnboardingRejections.WithLabelValues("precondition_not_met").Inc()
		return nil, fmt.Errorf("complete %s: %w", claimed, ErrPreconditionNotMet)
	}

	// Mutate a clone so the loaded state stays untouched if the save fails.
	next := state.Clone()
	next.MarkCompleted(claimed)
	if metadata != nil {
		next.SetMetadata(claimed, metadata)
	}
	next.CurrentStep = Next(claimed)
	next.IsCompleted = IsTerminal(next.CurrentStep)
	next.UpdatedAt = time.Now().UTC()

	if err := e.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("complete %s: %w", claimed, err)
	}

	metrics.OnboardingTransitions.WithLabelValues(claimed.String()).Inc()
	e.logger.Info().
		Str("actor_id", actor.UserID).
		Str("completed", claimed.String()).
		Str("current", next.CurrentStep.String()).
		Bool("is_completed", next.IsCompleted).
		Msg("onboarding step completed")

	return next, nil
}

package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/onboarding"
)

// DB defines the database operations used by activity structs.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Onboarding contains activities for the fleet-wide onboarding sweep. It
// wraps the same store, checker, and engine the API process uses, so the
// sweep and the in-process reconciler cannot disagree on semantics.
type Onboarding struct {
	db         DB
	reconciler *onboarding.Reconciler
}

func NewOnboarding(db DB, logger zerolog.Logger) *Onboarding {
	store := onboarding.NewStateStore(db)
	checker := onboarding.NewEntityChecker(db)
	engine := onboarding.NewEngine(store, checker, logger)
	// The interval only matters for the reconciler's own loop, which the
	// sweep never starts; Temporal drives the cadence instead.
	return &Onboarding{
		db:         db,
		reconciler: onboarding.NewReconciler(engine, store, checker, logger, time.Minute),
	}
}

// ListInProgressActors returns the actors whose persisted onboarding state
// has not reached the terminal step yet.
func (a *Onboarding) ListInProgressActors(ctx context.Context) ([]string, error) {
	rows, err := a.db.Query(ctx,
		`SELECT actor_id FROM onboarding_states WHERE NOT is_completed ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("list in-progress actors: %w", err)
	}
	defer rows.Close()

	var actorIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan actor id: %w", err)
		}
		actorIDs = append(actorIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actors: %w", err)
	}
	return actorIDs, nil
}

// ReconcileActorResult reports what a single sweep pass did for one actor.
type ReconcileActorResult struct {
	ActorID     string `json:"actor_id"`
	CurrentStep string `json:"current_step"`
	IsCompleted bool   `json:"is_completed"`
}

// ReconcileActor runs one convergence pass for the actor: it advances the
// persisted step as far as the existing entities allow and stops at the
// first absent one.
func (a *Onboarding) ReconcileActor(ctx context.Context, actorID string) (*ReconcileActorResult, error) {
	state, err := a.reconciler.Reconcile(ctx, model.Actor{UserID: actorID})
	if err != nil {
		return nil, fmt.Errorf("reconcile actor %s: %w", actorID, err)
	}
	return &ReconcileActorResult{
		ActorID:     state.ActorID,
		CurrentStep: state.CurrentStep.String(),
		IsCompleted: state.IsCompleted,
	}, nil
}

package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mechanio/garage/internal/model"
)

// Store owns the authoritative persisted workflow state.
type Store interface {
	// Load fetches the persisted state for an actor. When no row exists it
	// returns the default initial state without persisting it.
	Load(ctx context.Context, actor model.Actor) (*model.WorkflowState, error)
	// Save upserts the full state row atomically. A failed save leaves the
	// previously persisted state unchanged.
	Save(ctx context.Context, state *model.WorkflowState) error
	// Reset deletes the persisted row; a subsequent Load returns the
	// default initial state.
	Reset(ctx context.Context, actor model.Actor) error
}

const storeTimeout = 5 * time.Second

// StateStore persists workflow state in the onboarding_states table.
type StateStore struct {
	db DB
}

func NewStateStore(db DB) *StateStore {
	return &StateStore{db: db}
}

func (s *StateStore) Load(ctx context.Context, actor model.Actor) (*model.WorkflowState, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var (
		state         model.WorkflowState
		completedJSON []byte
		metadataJSON  []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT actor_id, current_step, completed_steps, is_completed, metadata, created_at, updated_at
		 FROM onboarding_states WHERE actor_id = $1`, actor.UserID,
	).Scan(&state.ActorID, &state.CurrentStep, &completedJSON, &state.IsCompleted,
		&metadataJSON, &state.CreatedAt, &state.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NewWorkflowState(actor.UserID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load workflow state for %s: %w: %w", actor.UserID, ErrBackendUnavailable, err)
	}

	if err := json.Unmarshal(completedJSON, &state.CompletedSteps); err != nil {
		return nil, fmt.Errorf("decode completed steps for %s: %w", actor.UserID, err)
	}
	if err := json.Unmarshal(metadataJSON, &state.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", actor.UserID, err)
	}
	return &state, nil
}

func (s *StateStore) Save(ctx context.Context, state *model.WorkflowState) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	completedJSON, err := json.Marshal(state.CompletedSteps)
	if err != nil {
		return fmt.Errorf("encode completed steps: %w", err)
	}
	metadataJSON, err := json.Marshal(state.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	// Single-statement upsert keeps the write atomic: either the whole row
	// updates or nothing does.
	_, err = s.db.Exec(ctx,
		`INSERT INTO onboarding_states (actor_id, current_step, completed_steps, is_completed, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (actor_id) DO UPDATE SET
		   current_step = EXCLUDED.current_step,
		   completed_steps = EXCLUDED.completed_steps,
		   is_completed = EXCLUDED.is_completed,
		   metadata = EXCLUDED.metadata,
		   updated_at = EXCLUDED.updated_at`,
		state.ActorID, state.CurrentStep, completedJSON, state.IsCompleted,
		metadataJSON, state.CreatedAt, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save workflow state for %s: %w: %w", state.ActorID, ErrPersistence, err)
	}
	return nil
}

func (s *StateStore) Reset(ctx context.Context, actor model.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`DELETE FROM onboarding_states WHERE actor_id = $1`, actor.UserID)
	if err != nil {
		return fmt.Errorf("reset workflow state for %s: %w: %w", actor.UserID, ErrPersistence, err)
	}
	return nil
}

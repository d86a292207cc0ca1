package model

import (
	"encoding/json"
	"time"
)

// WorkflowState is the persisted onboarding progress for one actor's
// tenant-initialization attempt. The row is always written as a whole
// (full-row upsert); partial field patches are not allowed.
type WorkflowState struct {
	ActorID        string                          `json:"actor_id" db:"actor_id"`
	CurrentStep    WorkflowStep                    `json:"current_step" db:"current_step"`
	CompletedSteps []WorkflowStep                  `json:"completed_steps" db:"completed_steps"`
	IsCompleted    bool                            `json:"is_completed" db:"is_completed"`
	Metadata       map[WorkflowStep]json.RawMessage `json:"metadata" db:"metadata"`
	CreatedAt      time.Time                       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time                       `json:"updated_at" db:"updated_at"`
}

// NewWorkflowState returns the default initial state for an actor that has
// no persisted row yet. It is not persisted until the first transition.
func NewWorkflowState(actorID string) *WorkflowState {
	now := time.Now().UTC()
	return &WorkflowState{
		ActorID:        actorID,
		CurrentStep:    StepSuperAdminCheck,
		CompletedSteps: []WorkflowStep{},
		Metadata:       map[WorkflowStep]json.RawMessage{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// HasCompleted reports whether the given step is in the completed set.
func (s *WorkflowState) HasCompleted(step WorkflowStep) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// MarkCompleted adds step to the completed set. Adding an already-present
// step is a no-op, so duplicate completion signals are absorbed here.
func (s *WorkflowState) MarkCompleted(step WorkflowStep) {
	if s.HasCompleted(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
}

// SetMetadata records a step-scoped payload. Metadata is write-once per
// step: a second write for the same step is ignored so that idempotent
// retries cannot clobber what an earlier step recorded.
func (s *WorkflowState) SetMetadata(step WorkflowStep, payload json.RawMessage) {
	if s.Metadata == nil {
		s.Metadata = map[WorkflowStep]json.RawMessage{}
	}
	if _, ok := s.Metadata[step]; ok {
		return
	}
	s.Metadata[step] = payload
}

// Clone returns a deep copy. The transition engine mutates a clone and only
// publishes it after the save confirmed.
func (s *WorkflowState) Clone() *WorkflowState {
	out := *s
	out.CompletedSteps = make([]WorkflowStep, len(s.CompletedSteps))
	copy(out.CompletedSteps, s.CompletedSteps)
	out.Metadata = make(map[WorkflowStep]json.RawMessage, len(s.Metadata))
	for k, v := range s.Metadata {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		out.Metadata[k] = raw
	}
	return &out
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkCompletedAbsorbsDuplicates(t *testing.T) {
	s := NewWorkflowState("usr-1")
	s.MarkCompleted(StepSuperAdminCheck)
	s.MarkCompleted(StepSuperAdminCheck)

	assert.Equal(t, []WorkflowStep{StepSuperAdminCheck}, s.CompletedSteps)
}

func TestSetMetadataIsWriteOnce(t *testing.T) {
	s := NewWorkflowState("usr-1")
	s.SetMetadata(StepPricingSelection, json.RawMessage(`{"plan":"starter"}`))
	s.SetMetadata(StepPricingSelection, json.RawMessage(`{"plan":"fleet"}`))

	assert.JSONEq(t, `{"plan":"starter"}`, string(s.Metadata[StepPricingSelection]))
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewWorkflowState("usr-1")
	s.MarkCompleted(StepSuperAdminCheck)
	s.SetMetadata(StepSuperAdminCheck, json.RawMessage(`{"seed":true}`))

	c := s.Clone()
	c.MarkCompleted(StepPricingSelection)
	c.SetMetadata(StepPricingSelection, json.RawMessage(`{"plan":"pro"}`))
	c.CurrentStep = StepAdminCreation

	assert.Equal(t, StepSuperAdminCheck, s.CurrentStep)
	assert.Len(t, s.CompletedSteps, 1)
	assert.NotContains(t, s.Metadata, StepPricingSelection)
}

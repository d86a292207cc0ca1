package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechanio/garage/internal/model"
)

func TestSteps_CanonicalOrder(t *testing.T) {
	want := []model.WorkflowStep{
		model.StepSuperAdminCheck,
		model.StepPricingSelection,
		model.StepAdminCreation,
		model.StepOrgCreation,
		model.StepSMSValidation,
		model.StepGarageSetup,
		model.StepDashboard,
	}
	assert.Equal(t, want, Steps())
}

func TestSteps_ReturnsCopy(t *testing.T) {
	steps := Steps()
	steps[0] = model.StepDashboard
	assert.Equal(t, model.StepSuperAdminCheck, Steps()[0])
}

func TestNext_FollowsCanonicalOrder(t *testing.T) {
	steps := Steps()
	for i := 0; i < len(steps)-1; i++ {
		assert.Equal(t, steps[i+1], Next(steps[i]), "next of %s", steps[i])
	}
}

func TestNext_TerminalIsIdempotent(t *testing.T) {
	assert.Equal(t, model.StepDashboard, Next(model.StepDashboard))
	assert.Equal(t, model.StepDashboard, Next(Next(model.StepDashboard)))
}

func TestNext_UnknownStepMapsToItself(t *testing.T) {
	unknown := model.WorkflowStep("bogus")
	assert.Equal(t, unknown, Next(unknown))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.StepDashboard))
	for _, s := range Steps()[:len(Steps())-1] {
		assert.False(t, IsTerminal(s), "step %s", s)
	}
}

func TestPosition(t *testing.T) {
	pos, ok := Position(model.StepSuperAdminCheck)
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	pos, ok = Position(model.StepDashboard)
	require.True(t, ok)
	assert.Equal(t, len(Steps())-1, pos)

	_, ok = Position(model.WorkflowStep("bogus"))
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	for _, s := range Steps() {
		assert.True(t, IsValid(s), "step %s", s)
	}
	assert.False(t, IsValid(model.WorkflowStep("bogus")))
	assert.False(t, IsValid(model.WorkflowStep("")))
}

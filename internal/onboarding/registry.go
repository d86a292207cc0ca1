package onboarding

import "github.com/mechanio/garage/internal/model"

// stepOrder is the single source of truth for step ordering. Every other
// component consults this table instead of hardcoding adjacency.
var stepOrder = []model.WorkflowStep{
	model.StepSuperAdminCheck,
	model.StepPricingSelection,
	model.StepAdminCreation,
	model.StepOrgCreation,
	model.StepSMSValidation,
	model.StepGarageSetup,
	model.StepDashboard,
}

// Steps returns the canonical step order. The returned slice is a copy.
func Steps() []model.WorkflowStep {
	out := make([]model.WorkflowStep, len(stepOrder))
	copy(out, stepOrder)
	return out
}

// Position returns the zero-based position of step in the canonical order.
func Position(step model.WorkflowStep) (int, bool) {
	for i, s := range stepOrder {
		if s == step {
			return i, true
		}
	}
	return 0, false
}

// IsValid reports whether step is a known workflow step.
func IsValid(step model.WorkflowStep) bool {
	_, ok := Position(step)
	return ok
}

// IsTerminal reports whether step is the terminal dashboard step.
func IsTerminal(step model.WorkflowStep) bool {
	return step == model.StepDashboard
}

// Next returns the step immediately following step in the canonical order.
// The terminal step maps to itself, so calling Next on it is idempotent.
// Unknown steps also map to themselves; callers validate with IsValid.
func Next(step model.WorkflowStep) model.WorkflowStep {
	pos, ok := Position(step)
	if !ok || pos == len(stepOrder)-1 {
		return step
	}
	return stepOrder[pos+1]
}

package model

// WorkflowStep is one stage of the tenant onboarding workflow.
type WorkflowStep string

// Onboarding workflow steps, in canonical order. The ordering itself lives
// in the onboarding step registry; these constants are only the names.
const (
	StepSuperAdminCheck  WorkflowStep = "super_admin_check"
	StepPricingSelection WorkflowStep = "pricing_selection"
	StepAdminCreation    WorkflowStep = "admin_creation"
	StepOrgCreation      WorkflowStep = "org_creation"
	StepSMSValidation    WorkflowStep = "sms_validation"
	StepGarageSetup      WorkflowStep = "garage_setup"
	StepDashboard        WorkflowStep = "dashboard"
)

func (s WorkflowStep) String() string {
	return string(s)
}

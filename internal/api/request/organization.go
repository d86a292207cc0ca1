package request

type CreateOrganization struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Phone   string `json:"phone" validate:"required,phone"`
	Address string `json:"address" validate:"required"`
}

type CreateGarage struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=120"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	BayCount int    `json:"bay_count" validate:"omitempty,min=1,max=200"`
}

type RequestSMSCode struct {
	Phone string `json:"phone" validate:"required,phone"`
}

type ValidateSMSCode struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type SelectPlan struct {
	PlanID string `json:"plan_id" validate:"required"`
}

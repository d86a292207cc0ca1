package core

import "time"

type Services struct {
	SuperAdmin   *SuperAdminService
	Admin        *AdminService
	Organization *OrganizationService
	Garage       *GarageService
	SMS          *SMSService
	Plan         *PlanService
	Session      *SessionService
}

func NewServices(db DB, catalog *PlanCatalog, sessionTTL, smsCodeTTL time.Duration) *Services {
	return &Services{
		SuperAdmin:   NewSuperAdminService(db),
		Admin:        NewAdminService(db),
		Organization: NewOrganizationService(db),
		Garage:       NewGarageService(db),
		SMS:          NewSMSService(db, smsCodeTTL),
		Plan:         NewPlanService(db, catalog),
		Session:      NewSessionService(db, sessionTTL),
	}
}

package model

import "time"

// Plan is one entry of the pricing catalog, loaded from the plans YAML file.
type Plan struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	MonthlyCents int      `json:"monthly_cents" yaml:"monthly_cents"`
	MaxGarages   int      `json:"max_garages" yaml:"max_garages"`
	MaxAdmins    int      `json:"max_admins" yaml:"max_admins"`
	Features     []string `json:"features" yaml:"features"`
}

// PlanSelection records which plan an actor picked during onboarding.
type PlanSelection struct {
	ID        string    `json:"id" db:"id"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	PlanID    string    `json:"plan_id" db:"plan_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

// PlanCatalog is the static pricing catalog, loaded once at startup.
type PlanCatalog struct {
	Plans []model.Plan `yaml:"plans"`
}

// LoadPlanCatalog reads the pricing catalog from a YAML file.
func LoadPlanCatalog(path string) (*PlanCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog: %w", err)
	}

	var catalog PlanCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	if len(catalog.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog %s contains no plans", path)
	}
	return &catalog, nil
}

// Get returns the plan with the given ID.
func (c *PlanCatalog) Get(id string) (*model.Plan, bool) {
	for i := range c.Plans {
		if c.Plans[i].ID == id {
			return &c.Plans[i], true
		}
	}
	return nil, false
}

type PlanService struct {
	db      DB
	catalog *PlanCatalog
}

func NewPlanService(db DB, catalog *PlanCatalog) *PlanService {
	return &PlanService{db: db, catalog: catalog}
}

func (s *PlanService) List() []model.Plan {
	return s.catalog.Plans
}

// Select records the actor's plan choice. Re-selecting replaces the
// previous choice; plan selection never blocks onboarding progress.
func (s *PlanService) Select(ctx context.Context, actor model.Actor, planID string) (*model.PlanSelection, error) {
	if _, ok := s.catalog.Get(planID); !ok {
		return nil, fmt.Errorf("unknown plan %q", planID)
	}

	sel := &model.PlanSelection{
		ID:        platform.NewID(),
		ActorID:   actor.UserID,
		PlanID:    planID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO plan_selections (id, actor_id, plan_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (actor_id) DO UPDATE SET plan_id = EXCLUDED.plan_id, created_at = EXCLUDED.created_at`,
		sel.ID, sel.ActorID, sel.PlanID, sel.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record plan selection: %w", err)
	}
	return sel, nil
}

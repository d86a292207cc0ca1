package core

import (
	"context"
	"fmt"

	"github.com/mechanio/garage/internal/model"
)

type GarageService struct {
	db DB
}

func NewGarageService(db DB) *GarageService {
	return &GarageService{db: db}
}

func (s *GarageService) Create(ctx context.Context, garage *model.Garage) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO garages (id, org_id, name, address, city, phone, bay_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		garage.ID, garage.OrgID, garage.Name, garage.Address, garage.City,
		garage.Phone, garage.BayCount, garage.CreatedAt, garage.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert garage: %w", err)
	}
	return nil
}

func (s *GarageService) GetByID(ctx context.Context, id string) (*model.Garage, error) {
	var g model.Garage
	err := s.db.QueryRow(ctx,
		`SELECT id, org_id, name, address, city, phone, bay_count, created_at, updated_at
		 FROM garages WHERE id = $1`, id,
	).Scan(&g.ID, &g.OrgID, &g.Name, &g.Address, &g.City, &g.Phone, &g.BayCount,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get garage %s: %w", id, err)
	}
	return &g, nil
}

func (s *GarageService) ListByOrg(ctx context.Context, orgID string) ([]model.Garage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, org_id, name, address, city, phone, bay_count, created_at, updated_at
		 FROM garages WHERE org_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list garages for org %s: %w", orgID, err)
	}
	defer rows.Close()

	var garages []model.Garage
	for rows.Next() {
		var g model.Garage
		if err := rows.Scan(&g.ID, &g.OrgID, &g.Name, &g.Address, &g.City, &g.Phone,
			&g.BayCount, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan garage: %w", err)
		}
		garages = append(garages, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate garages: %w", err)
	}
	return garages, nil
}

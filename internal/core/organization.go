package core

import (
	"context"
	"fmt"

	"github.com/mechanio/garage/internal/model"
)

type OrganizationService struct {
	db DB
}

func NewOrganizationService(db DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// Create inserts the organization and links the owner's admin record to it
// in one transaction.
func (s *OrganizationService) Create(ctx context.Context, org *model.Organization) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create organization: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO organizations (id, owner_id, name, phone, address, validated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		org.ID, org.OwnerID, org.Name, org.Phone, org.Address, org.ValidatedAt,
		org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE admins SET org_id = $1, updated_at = now() WHERE user_id = $2 AND org_id IS NULL`,
		org.ID, org.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("link admin to organization: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create organization: %w", err)
	}
	return nil
}

func (s *OrganizationService) GetByOwner(ctx context.Context, ownerID string) (*model.Organization, error) {
	var o model.Organization
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, name, phone, address, validated_at, created_at, updated_at
		 FROM organizations WHERE owner_id = $1`, ownerID,
	).Scan(&o.ID, &o.OwnerID, &o.Name, &o.Phone, &o.Address, &o.ValidatedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get organization for owner %s: %w", ownerID, err)
	}
	return &o, nil
}

func (s *OrganizationService) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	var o model.Organization
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, name, phone, address, validated_at, created_at, updated_at
		 FROM organizations WHERE id = $1`, id,
	).Scan(&o.ID, &o.OwnerID, &o.Name, &o.Phone, &o.Address, &o.ValidatedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get organization %s: %w", id, err)
	}
	return &o, nil
}

package core

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mechanio/garage/internal/model"
)

type SuperAdminService struct {
	db DB
}

func NewSuperAdminService(db DB) *SuperAdminService {
	return &SuperAdminService{db: db}
}

// Create inserts the platform super admin. Only one active super admin may
// exist; a second create fails on the partial unique index.
func (s *SuperAdminService) Create(ctx context.Context, admin *model.SuperAdmin, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}
	admin.PasswordHash = string(hash)

	_, err = s.db.Exec(ctx,
		`INSERT INTO super_admins (id, email, name, password_hash, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		admin.ID, admin.Email, admin.Name, admin.PasswordHash, admin.Active,
		admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert super admin: %w", err)
	}
	return nil
}

func (s *SuperAdminService) GetByEmail(ctx context.Context, email string) (*model.SuperAdmin, error) {
	var a model.SuperAdmin
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, active, created_at, updated_at
		 FROM super_admins WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get super admin by email: %w", err)
	}
	return &a, nil
}

// ActiveExists reports whether an active super admin record exists.
func (s *SuperAdminService) ActiveExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM super_admins WHERE active)`,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check super admin exists: %w", err)
	}
	return exists, nil
}

package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

type AdminService struct {
	db DB
}

func NewAdminService(db DB) *AdminService {
	return &AdminService{db: db}
}

// Create inserts the auth identity and the admin role record in a single
// transaction, so a failure on the role insert rolls back the identity and
// no half-created account survives.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin.PasswordHash = string(hash)
	if admin.UserID == "" {
		admin.UserID = platform.NewID()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create admin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, phone, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		admin.UserID, admin.Email, "", admin.PasswordHash, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert user identity: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO admins (id, user_id, org_id, email, name, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		admin.ID, admin.UserID, admin.OrgID, admin.Email, admin.Name,
		admin.PasswordHash, admin.Role, admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert admin role record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create admin: %w", err)
	}
	return nil
}

func (s *AdminService) GetByUserID(ctx context.Context, userID string) (*model.Admin, error) {
	var a model.Admin
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, org_id, email, name, password_hash, role, created_at, updated_at
		 FROM admins WHERE user_id = $1`, userID,
	).Scan(&a.ID, &a.UserID, &a.OrgID, &a.Email, &a.Name, &a.PasswordHash, &a.Role,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get admin for user %s: %w", userID, err)
	}
	return &a, nil
}

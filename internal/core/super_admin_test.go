package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mechanio/garage/internal/model"
)

func TestSuperAdminCreate_HashesPassword(t *testing.T) {
	db := &mockDB{}
	db.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO super_admins")
	}), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	now := time.Now().UTC()
	admin := &model.SuperAdmin{
		ID:        "sup-1",
		Email:     "root@garage.test",
		Name:      "Root",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	svc := NewSuperAdminService(db)
	require.NoError(t, svc.Create(context.Background(), admin, "root-pass"))

	require.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "root-pass", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("root-pass")))
}

func TestSuperAdminActiveExists(t *testing.T) {
	db := &mockDB{}
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "FROM super_admins WHERE active")
	}), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*bool)) = true
		return nil
	}})

	svc := NewSuperAdminService(db)
	exists, err := svc.ActiveExists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

package core

import (
	"context"
	"errors"
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

func newTestAdmin() *model.Admin {
	now := time.Now().UTC()
	return &model.Admin{
		ID:        "adm-1",
		Email:     "owner@garage.test",
		Name:      "Owner",
		Role:      model.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAdminCreate_InsertsIdentityAndRoleInOneTx(t *testing.T) {
	db := &mockDB{}
	tx := &mockTx{}
	db.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO users")
	}), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO admins")
	}), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewAdminService(db)
	admin := newTestAdmin()
	err := svc.Create(context.Background(), admin, "s3cret-pass")
	require.NoError(t, err)

	assert.NotEmpty(t, admin.UserID)
	require.NotEmpty(t, admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")))
	tx.AssertCalled(t, "Commit", mock.Anything)
}

func TestAdminCreate_RoleInsertFailureRollsBackIdentity(t *testing.T) {
	db := &mockDB{}
	tx := &mockTx{}
	db.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO users")
	}), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO admins")
	}), mock.Anything).Return(pgconn.NewCommandTag(""), errors.New("duplicate key"))
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewAdminService(db)
	err := svc.Create(context.Background(), newTestAdmin(), "s3cret-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert admin role record")

	tx.AssertCalled(t, "Rollback", mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAdminCreate_BeginFailure(t *testing.T) {
	db := &mockDB{}
	db.On("Begin", mock.Anything).Return(nil, errors.New("pool exhausted"))

	svc := NewAdminService(db)
	err := svc.Create(context.Background(), newTestAdmin(), "s3cret-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin create admin")
}

func TestAdminGetByUserID(t *testing.T) {
	db := &mockDB{}
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "FROM admins WHERE user_id")
	}), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "adm-1"
		*(dest[1].(*string)) = "usr-1"
		*(dest[3].(*string)) = "owner@garage.test"
		*(dest[4].(*string)) = "Owner"
		*(dest[6].(*string)) = model.RoleAdmin
		return nil
	}})

	svc := NewAdminService(db)
	admin, err := svc.GetByUserID(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "adm-1", admin.ID)
	assert.Equal(t, "usr-1", admin.UserID)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Nil(t, admin.OrgID)
}

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

	"github.com/mechanio/garage/internal/model"
)

func newTestOrg() *model.Organization {
	now := time.Now().UTC()
	return &model.Organization{
		ID:        "org-1",
		OwnerID:   "usr-1",
		Name:      "Hilltop Motors",
		Phone:     "+15550100",
		Address:   "1 Hill Rd",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrganizationCreate_LinksOwnerAdmin(t *testing.T) {
	db := &mockDB{}
	tx := &mockTx{}
	db.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO organizations")
	}), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "UPDATE admins SET org_id")
	}), mock.MatchedBy(func(args []any) bool {
		return len(args) == 2 && args[0] == "org-1" && args[1] == "usr-1"
	})).Return(pgconn.NewCommandTag("UPDATE 1"), nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewOrganizationService(db)
	require.NoError(t, svc.Create(context.Background(), newTestOrg()))
	tx.AssertCalled(t, "Commit", mock.Anything)
}

func TestOrganizationCreate_LinkFailureRollsBack(t *testing.T) {
	db := &mockDB{}
	tx := &mockTx{}
	db.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO organizations")
	}), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	tx.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "UPDATE admins SET org_id")
	}), mock.Anything).Return(pgconn.NewCommandTag(""), errors.New("connection reset"))
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewOrganizationService(db)
	err := svc.Create(context.Background(), newTestOrg())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link admin to organization")
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestOrganizationGetByOwner_NotValidated(t *testing.T) {
	db := &mockDB{}
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "FROM organizations WHERE owner_id")
	}), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "org-1"
		*(dest[1].(*string)) = "usr-1"
		*(dest[2].(*string)) = "Hilltop Motors"
		return nil
	}})

	svc := NewOrganizationService(db)
	org, err := svc.GetByOwner(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "org-1", org.ID)
	assert.Nil(t, org.ValidatedAt)
}

package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mechanio/garage/internal/model"
)

// DB defines the database operations used by the onboarding core.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Checker answers whether a step's gating entity exists for an actor.
// Implementations must distinguish "entity absent" from "check failed":
// infrastructure failures return an error wrapping ErrBackendUnavailable,
// never a false result.
type Checker interface {
	Exists(ctx context.Context, actor model.Actor, step model.WorkflowStep) (bool, error)
}

const checkTimeout = 5 * time.Second

// EntityChecker resolves gating entities against the core database.
// Pure read; no side effects.
type EntityChecker struct {
	db DB
}

func NewEntityChecker(db DB) *EntityChecker {
	return &EntityChecker{db: db}
}

func (c *EntityChecker) Exists(ctx context.Context, actor model.Actor, step model.WorkflowStep) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	switch step {
	case model.StepSuperAdminCheck:
		return c.queryExists(ctx, step,
			`SELECT EXISTS(SELECT 1 FROM super_admins WHERE active)`)

	case model.StepPricingSelection:
		// Plan selection never gates progress. The selection row is still
		// recorded by the plan service for billing.
		return true, nil

	case model.StepAdminCreation:
		return c.queryExists(ctx, step,
			`SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)`, actor.UserID)

	case model.StepOrgCreation:
		return c.queryExists(ctx, step,
			`SELECT EXISTS(SELECT 1 FROM organizations WHERE owner_id = $1)`, actor.UserID)

	case model.StepSMSValidation:
		// Either the actor's own phone verification or the linked
		// organization's validation timestamp satisfies this step.
		return c.queryExists(ctx, step,
			`SELECT EXISTS(SELECT 1 FROM phone_verifications WHERE actor_id = $1 AND verified_at IS NOT NULL)
			     OR EXISTS(SELECT 1 FROM organizations WHERE owner_id = $1 AND validated_at IS NOT NULL)`,
			actor.UserID)

	case model.StepGarageSetup:
		return c.queryExists(ctx, step,
			`SELECT EXISTS(SELECT 1 FROM garages g JOIN organizations o ON o.id = g.org_id WHERE o.owner_id = $1)`,
			actor.UserID)

	case model.StepDashboard:
		// Terminal step has no gating entity.
		return false, nil

	default:
		return false, fmt.Errorf("unknown workflow step %q", step)
	}
}

func (c *EntityChecker) queryExists(ctx context.Context, step model.WorkflowStep, sql string, args ...any) (bool, error) {
	var exists bool
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s: %w: %w", step, ErrBackendUnavailable, err)
	}
	return exists, nil
}
